package intent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"srh-intent/internal/entity"
	"srh-intent/pkg/llm"
	"srh-intent/pkg/taxonomy"

	"github.com/avast/retry-go/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidPair     = errors.New("subtopic does not belong to topic")
	ErrConfidenceRange = errors.New("confidence outside [0, 1]")
)

const outputExcerptLimit = 200

// Logger is the subset of the application logger the classifier needs.
type Logger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}

// Config controls a Classifier.
type Config struct {
	Model         string
	MaxRetries    int
	Backoff       time.Duration
	Temperature   float64
	ValidatePairs bool
}

// DefaultConfig returns the settings used for published runs.
func DefaultConfig(model string) Config {
	return Config{
		Model:       model,
		MaxRetries:  2,
		Backoff:     1500 * time.Millisecond,
		Temperature: 0.1,
	}
}

// Outcome is the result of a single model call.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRecoverable
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRecoverable:
		return "recoverable"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

type callResult struct {
	outcome Outcome
	raw     string
	parsed  ParseResult
	err     error
}

// Classifier maps one query to a topic and subtopic of the taxonomy using an
// LLM, retrying failed calls a bounded number of times.
type Classifier struct {
	provider llm.LLMProvider
	taxonomy *taxonomy.Taxonomy
	cfg      Config
	logger   Logger
	tracer   trace.Tracer
}

func NewClassifier(provider llm.LLMProvider, tax *taxonomy.Taxonomy, cfg Config, logger Logger) *Classifier {
	if tax == nil {
		tax = taxonomy.Default()
	}
	if logger == nil {
		logger = nopLogger{}
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Classifier{
		provider: provider,
		taxonomy: tax,
		cfg:      cfg,
		logger:   logger,
		tracer:   otel.Tracer("srh-intent/intent"),
	}
}

func (c *Classifier) Config() Config {
	return c.cfg
}

// Classify always returns a result. After at most MaxRetries+1 calls the
// result is either classified or carries the last error in RawOutput.
func (c *Classifier) Classify(ctx context.Context, q entity.Query) *entity.ClassificationResult {
	ctx, span := c.tracer.Start(ctx, "intent.Classify", trace.WithAttributes(
		attribute.String("query.id", q.ID.String()),
		attribute.String("llm.model", c.cfg.Model),
	))
	defer span.End()

	messages := llm.SystemAndUser(SystemPrompt, BuildPrompt(q.Text, c.taxonomy))
	maxAttempts := c.cfg.MaxRetries + 1

	var (
		calls int
		last  callResult
	)
	err := retry.Do(
		func() error {
			calls++
			last = c.attempt(ctx, messages)
			if last.outcome == OutcomeSuccess {
				return nil
			}
			return last.err
		},
		retry.Context(ctx),
		retry.Attempts(uint(maxAttempts)),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return c.cfg.Backoff * time.Duration(n+1)
		}),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(error) bool { return ctx.Err() == nil }),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("CLASSIFIER", "Attempt failed", map[string]interface{}{
				"id":      q.ID.String(),
				"attempt": n + 1,
				"of":      maxAttempts,
				"error":   err.Error(),
			})
		}),
	)

	span.SetAttributes(attribute.Int("llm.attempts", calls))

	if err == nil {
		span.SetStatus(codes.Ok, "")
		return c.success(q, last, calls)
	}

	lastErr := last.err
	if lastErr == nil || ctx.Err() != nil {
		lastErr = err
	}
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())

	c.logger.Warn("CLASSIFIER", "Classification failed", map[string]interface{}{
		"id":       q.ID.String(),
		"attempts": calls,
		"outcome":  OutcomeExhausted.String(),
		"error":    lastErr.Error(),
	})
	res := entity.NewFailedResult(q, c.cfg.Model, lastErr, calls)
	if last.parsed.Status != "" {
		res.Meta = map[string]interface{}{"parse_status": string(last.parsed.Status)}
	}
	return res
}

func (c *Classifier) attempt(ctx context.Context, messages []llm.Message) callResult {
	raw, err := c.provider.Chat(ctx, messages,
		llm.WithTemperature(c.cfg.Temperature),
		llm.WithModel(c.cfg.Model),
	)
	if err != nil {
		return callResult{outcome: OutcomeRecoverable, err: err}
	}

	parsed := ParseResponse(raw)
	if !parsed.OK() {
		return callResult{
			outcome: OutcomeRecoverable,
			raw:     raw,
			parsed:  parsed,
			err:     fmt.Errorf("%w (output: %q)", parsed.Err, excerpt(raw)),
		}
	}

	if verr := c.check(parsed.Payload); verr != nil {
		if c.cfg.ValidatePairs {
			return callResult{outcome: OutcomeRecoverable, raw: raw, parsed: parsed, err: verr}
		}
		c.logger.Debug("CLASSIFIER", "Accepted answer outside taxonomy", map[string]interface{}{
			"topic":    entity.StringOrEmpty(parsed.Payload.Topic),
			"subtopic": entity.StringOrEmpty(parsed.Payload.Subtopic),
			"reason":   verr.Error(),
		})
	}

	return callResult{outcome: OutcomeSuccess, raw: raw, parsed: parsed}
}

func (c *Classifier) check(p Payload) error {
	topic := entity.StringOrEmpty(p.Topic)
	sub := entity.StringOrEmpty(p.Subtopic)
	if !c.taxonomy.Contains(topic, sub) {
		return fmt.Errorf("%w: %q / %q", ErrInvalidPair, topic, sub)
	}
	if p.Confidence != nil && (*p.Confidence < 0 || *p.Confidence > 1) {
		return fmt.Errorf("%w: %v", ErrConfidenceRange, *p.Confidence)
	}
	return nil
}

func (c *Classifier) success(q entity.Query, a callResult, calls int) *entity.ClassificationResult {
	p := a.parsed.Payload
	return &entity.ClassificationResult{
		ID:         q.ID,
		Query:      q.Text,
		Topic:      p.Topic,
		Subtopic:   p.Subtopic,
		Confidence: p.Confidence,
		Reason:     p.Reason,
		RawOutput:  a.raw,
		Model:      c.cfg.Model,
		Status:     entity.StatusClassified,
		Attempts:   calls,
	}
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= outputExcerptLimit {
		return s
	}
	cut := outputExcerptLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
