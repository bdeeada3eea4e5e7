package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"srh-intent/internal/config"
	"srh-intent/internal/model"
	"srh-intent/internal/pkg/logger"
	"srh-intent/internal/repository/contract"
	"srh-intent/internal/repository/implementation"
	"srh-intent/internal/repository/memory"
	"srh-intent/internal/service"
	"srh-intent/internal/source"
	"srh-intent/internal/tracer"
	"srh-intent/pkg/database"
	"srh-intent/pkg/events"
	"srh-intent/pkg/intent"
	"srh-intent/pkg/llm"
	"srh-intent/pkg/llm/factory"
	pktNats "srh-intent/pkg/nats"
	"srh-intent/pkg/taxonomy"

	"github.com/hashicorp/go-multierror"
)

// Container holds everything a classification run needs.
type Container struct {
	Config     *config.Config
	Logger     logger.ILogger
	Taxonomy   *taxonomy.Taxonomy
	Provider   llm.LLMProvider
	Classifier *intent.Classifier
	Source     source.RowSource
	Store      contract.ResultRepository
	Publisher  events.Publisher
	Cache      *memory.ResultCache
	Driver     *service.DriverService

	closers []func() error
}

// LoadTaxonomy returns the built-in taxonomy, or the one in path when set.
func LoadTaxonomy(path string) (*taxonomy.Taxonomy, error) {
	if path == "" {
		return taxonomy.Default(), nil
	}
	return taxonomy.LoadFile(path)
}

// NewContainer wires config into a ready driver. Anything opened before a
// failure is closed again.
func NewContainer(cfg *config.Config, log logger.ILogger, opts ...service.DriverOption) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: log}
	ready := false
	defer func() {
		if !ready {
			c.Close()
		}
	}()

	if !cfg.EnvFileLoaded {
		log.Debug("BOOTSTRAP", "No .env file found, using process environment", nil)
	}

	shutdown := tracer.InitTracer(cfg.Tracing, log)
	c.closers = append(c.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdown(ctx)
	})

	var err error
	c.Taxonomy, err = LoadTaxonomy(cfg.Run.TaxonomyFile)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	c.Provider, err = factory.NewLLMProvider(cfg.Ai.Provider, cfg.Ai.Model, cfg.Ai.BaseURL, cfg.Ai.APIKey)
	if err != nil {
		return nil, fmt.Errorf("create llm provider: %w", err)
	}

	c.Classifier = intent.NewClassifier(c.Provider, c.Taxonomy, intent.Config{
		Model:         cfg.Ai.Model,
		MaxRetries:    cfg.Run.MaxRetries,
		Backoff:       cfg.Run.RetryBackoff,
		Temperature:   cfg.Ai.Temperature,
		ValidatePairs: cfg.Run.ValidatePairs,
	}, log)

	c.Source, err = source.Open(cfg.Run.InputFile, source.Options{
		IDColumn:   cfg.Run.IDColumn,
		TextColumn: cfg.Run.TextColumn,
		Sheet:      cfg.Run.Sheet,
	})
	if err != nil {
		return nil, err
	}

	if c.Store, err = c.newStore(); err != nil {
		return nil, err
	}

	c.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		pub, perr := pktNats.NewPublisher(cfg.App.NatsURL, log)
		if perr != nil {
			// Events are optional; a run without a bus is still useful.
			log.Warn("BOOTSTRAP", "NATS unavailable, events disabled", map[string]interface{}{"error": perr.Error()})
		} else {
			c.Publisher = pub
			c.closers = append(c.closers, pub.Close)
		}
	}

	driverOpts := []service.DriverOption{service.WithPublisher(c.Publisher)}
	if cfg.Run.CacheEnabled {
		c.Cache = memory.NewResultCache(cfg.Run.CacheTTL)
		driverOpts = append(driverOpts, service.WithResultCache(c.Cache))
	}

	c.Driver = service.NewDriverService(c.Source, c.Store, c.Classifier, service.DriverConfig{
		Model:    cfg.Ai.Model,
		RowDelay: cfg.Run.RowDelay,
		MaxRows:  cfg.Run.MaxRows,
	}, log, append(driverOpts, opts...)...)

	log.Info("BOOTSTRAP", "Container ready", map[string]interface{}{
		"provider": cfg.Ai.Provider,
		"model":    cfg.Ai.Model,
		"input":    cfg.Run.InputFile,
		"store":    cfg.Run.ResultStore,
		"topics":   c.Taxonomy.Len(),
	})
	ready = true
	return c, nil
}

// NewResultQuery opens the postgres mirror for listing results. The returned
// function closes the connection pool.
func NewResultQuery(cfg *config.Config) (*service.ResultQueryService, func() error, error) {
	if cfg.Database.Connection == "" {
		return nil, nil, errors.New("DB_CONNECTION_STRING is required to query results")
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment == "debug", &model.ClassificationResult{})
	if err != nil {
		return nil, nil, err
	}
	repo := implementation.NewResultRepository(db, cfg.Ai.Model)
	return service.NewResultQueryService(repo), func() error { return database.Close(db) }, nil
}

func (c *Container) newStore() (contract.ResultRepository, error) {
	cfg := c.Config
	switch cfg.Run.ResultStore {
	case config.StorePostgres:
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment == "debug", &model.ClassificationResult{})
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() error { return database.Close(db) })
		return implementation.NewResultRepository(db, cfg.Ai.Model), nil
	default:
		return implementation.NewJSONResultRepository(cfg.Run.OutputFile, c.Logger), nil
	}
}

// Close releases resources in reverse order of acquisition and reports every
// failure.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var result *multierror.Error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			result = multierror.Append(result, err)
		}
	}
	c.closers = nil
	return result.ErrorOrNil()
}
