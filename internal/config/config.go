package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	StoreJSON     = "json"
	StorePostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Run      RunConfig
	Tracing  TracingConfig

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

type AppConfig struct {
	Environment string
	LogFilePath string `validate:"required"`
	NatsURL     string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	Provider    string  `validate:"oneof=openrouter openai ollama"`
	Model       string  `validate:"required"`
	BaseURL     string  `validate:"omitempty,url"`
	APIKey      string  `validate:"required_if=Provider openrouter,required_if=Provider openai"`
	Temperature float64 `validate:"gte=0,lte=2"`
}

type RunConfig struct {
	InputFile     string `validate:"required"`
	OutputFile    string `validate:"required"`
	IDColumn      string `validate:"required"`
	TextColumn    string `validate:"required"`
	Sheet         string
	MaxRetries    int           `validate:"gte=0"`
	RetryBackoff  time.Duration `validate:"gte=0"`
	RowDelay      time.Duration `validate:"gte=0"`
	MaxRows       int           `validate:"gte=0"`
	ValidatePairs bool
	TaxonomyFile  string
	ResultStore   string        `validate:"oneof=json postgres"`
	CacheTTL      time.Duration `validate:"gte=0"`
	CacheEnabled  bool
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	loaded := godotenv.Load() == nil

	return &Config{
		EnvFileLoaded: loaded,
		App: AppConfig{
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "logs/srh.log"),
			NatsURL:     getEnv("NATS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			Provider:    strings.ToLower(getEnv("LLM_PROVIDER", "openrouter")),
			Model:       getEnv("LLM_MODEL", "sarvamai/sarvam-m"),
			BaseURL:     getEnv("LLM_BASE_URL", ""),
			APIKey:      getEnv("OPENROUTER_API_KEY", ""),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.1),
		},
		Run: RunConfig{
			InputFile:     getEnv("INPUT_FILE", "data/hinglish/final_jmir_data/cleaned_data_for_jmir.xlsx"),
			OutputFile:    getEnv("OUTPUT_FILE", "output/sarvam-m.json"),
			IDColumn:      getEnv("ID_COLUMN", "Index"),
			TextColumn:    getEnv("TEXT_COLUMN", "User Content"),
			Sheet:         getEnv("INPUT_SHEET", ""),
			MaxRetries:    getEnvAsInt("MAX_RETRIES", 2),
			RetryBackoff:  getEnvAsDuration("RETRY_BACKOFF", 1500*time.Millisecond),
			RowDelay:      getEnvAsDuration("ROW_DELAY", 3*time.Second),
			MaxRows:       getEnvAsInt("MAX_ROWS", 0),
			ValidatePairs: getEnvAsBool("VALIDATE_PAIRS", false),
			TaxonomyFile:  getEnv("TAXONOMY_FILE", ""),
			ResultStore:   strings.ToLower(getEnv("RESULT_STORE", StoreJSON)),
			CacheTTL:      getEnvAsDuration("CACHE_TTL", 0),
			CacheEnabled:  getEnvAsBool("CACHE_ENABLED", false),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

var validate = validator.New()

// Validate checks the settings needed by a classification run.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Run.ResultStore == StorePostgres && c.Database.Connection == "" {
		return errors.New("invalid config: RESULT_STORE=postgres requires DB_CONNECTION_STRING")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("1.5s") and bare seconds ("1.5").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(strValue, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return fallback
}
