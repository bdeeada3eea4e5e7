package service

import (
	"context"
	"fmt"
	"time"

	"srh-intent/internal/entity"
	"srh-intent/internal/pkg/logger"
	"srh-intent/internal/repository/contract"
	"srh-intent/internal/repository/memory"
	"srh-intent/internal/source"
	"srh-intent/pkg/events"

	"github.com/google/uuid"
)

// Classifier turns one query into a result. It never fails; failures are
// encoded in the result.
type Classifier interface {
	Classify(ctx context.Context, q entity.Query) *entity.ClassificationResult
}

type DriverConfig struct {
	Model    string
	RowDelay time.Duration
	// MaxRows caps the rows classified in one run; 0 means no cap.
	MaxRows int
}

type RunSummary struct {
	RunID         string
	Total         int
	Skipped       int
	Classified    int
	Failed        int
	PersistErrors int
	Duration      time.Duration
	Interrupted   bool
}

// Processed is the number of rows that got a new result in this run.
func (s RunSummary) Processed() int {
	return s.Classified + s.Failed
}

type RowState string

const (
	RowSkipped    RowState = "skipped"
	RowClassified RowState = "classified"
	RowFailed     RowState = "failed"
)

// ProgressEvent is reported once per input row.
type ProgressEvent struct {
	Position   int // 1-based position in the input
	Total      int
	Query      entity.Query
	State      RowState
	Result     *entity.ClassificationResult
	Cached     bool
	PersistErr error
}

type DriverOption func(*DriverService)

// WithResultCache lets identical query texts reuse an earlier answer.
func WithResultCache(c *memory.ResultCache) DriverOption {
	return func(s *DriverService) { s.cache = c }
}

func WithPublisher(p events.Publisher) DriverOption {
	return func(s *DriverService) { s.publisher = p }
}

func WithProgress(fn func(ProgressEvent)) DriverOption {
	return func(s *DriverService) { s.progress = fn }
}

// DriverService runs a classification pass over a row source: rows already
// in the store are skipped, every other row is classified and persisted
// before the next one starts.
type DriverService struct {
	source     source.RowSource
	store      contract.ResultRepository
	classifier Classifier
	cache      *memory.ResultCache
	publisher  events.Publisher
	progress   func(ProgressEvent)
	logger     logger.ILogger
	cfg        DriverConfig
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewDriverService(src source.RowSource, store contract.ResultRepository, classifier Classifier, cfg DriverConfig, log logger.ILogger, opts ...DriverOption) *DriverService {
	s := &DriverService{
		source:     src,
		store:      store,
		classifier: classifier,
		publisher:  events.NopPublisher{},
		progress:   func(ProgressEvent) {},
		logger:     log,
		cfg:        cfg,
		sleep:      sleepCtx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes every pending row. Only failing to read the input or the
// existing results is an error; per-row problems are logged and counted.
// On cancellation Run stops after the last completed persist and returns the
// partial summary.
func (s *DriverService) Run(ctx context.Context) (*RunSummary, error) {
	start := time.Now()
	summary := &RunSummary{RunID: uuid.NewString()}

	rows, err := s.source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	summary.Total = len(rows)

	results, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}

	s.logger.Info("DRIVER", "Run started", map[string]interface{}{
		"run_id":   summary.RunID,
		"rows":     len(rows),
		"existing": results.Len(),
		"model":    s.cfg.Model,
		"max_rows": s.cfg.MaxRows,
	})

	modelCalls := 0
	for i, q := range rows {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}

		if q.ID == "" {
			s.logger.Warn("DRIVER", "Skipping row without identifier", map[string]interface{}{"position": i + 1})
			summary.Skipped++
			s.progress(ProgressEvent{Position: i + 1, Total: len(rows), Query: q, State: RowSkipped})
			continue
		}
		if results.Has(q.ID) {
			summary.Skipped++
			s.progress(ProgressEvent{Position: i + 1, Total: len(rows), Query: q, State: RowSkipped})
			continue
		}
		if s.cfg.MaxRows > 0 && summary.Processed() >= s.cfg.MaxRows {
			s.logger.Info("DRIVER", "Row cap reached", map[string]interface{}{"max_rows": s.cfg.MaxRows})
			break
		}

		result, cached := s.lookup(q)
		if !cached {
			if modelCalls > 0 {
				if err := s.sleep(ctx, s.cfg.RowDelay); err != nil {
					summary.Interrupted = true
					break
				}
			}
			modelCalls++
			result = s.classifier.Classify(ctx, q)

			// A row cut short by cancellation is left for the next run.
			if ctx.Err() != nil && !result.Succeeded() {
				summary.Interrupted = true
				break
			}
		}
		result = result.WithRunID(summary.RunID)

		if verr := result.Validate(); verr != nil {
			s.logger.Warn("DRIVER", "Result fails validation, storing as returned", map[string]interface{}{
				"id":    q.ID.String(),
				"error": verr.Error(),
			})
		}

		state := RowClassified
		if result.Succeeded() {
			summary.Classified++
		} else {
			state = RowFailed
			summary.Failed++
			s.logger.Warn("DRIVER", "Row failed", map[string]interface{}{
				"id":         q.ID.String(),
				"attempts":   result.Attempts,
				"raw_output": result.RawOutput,
			})
		}

		persistErr := s.store.Append(ctx, results, result)
		if persistErr != nil {
			summary.PersistErrors++
			s.logger.Error("DRIVER", "Failed to persist result", map[string]interface{}{
				"id":    q.ID.String(),
				"error": persistErr.Error(),
			})
		}
		if s.cache != nil {
			s.cache.Save(result)
		}

		s.publish(ctx, summary.RunID, result, cached)
		s.progress(ProgressEvent{
			Position:   i + 1,
			Total:      len(rows),
			Query:      q,
			State:      state,
			Result:     result,
			Cached:     cached,
			PersistErr: persistErr,
		})
	}

	summary.Duration = time.Since(start)
	s.finish(ctx, summary)
	return summary, nil
}

func (s *DriverService) lookup(q entity.Query) (*entity.ClassificationResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(q)
}

func (s *DriverService) publish(ctx context.Context, runID string, r *entity.ClassificationResult, cached bool) {
	outcome := events.ClassificationOutcome{
		RunID:      runID,
		ID:         r.ID.String(),
		Model:      r.Model,
		Succeeded:  r.Succeeded(),
		Topic:      entity.StringOrEmpty(r.Topic),
		Subtopic:   entity.StringOrEmpty(r.Subtopic),
		Confidence: r.Confidence,
		Attempts:   r.Attempts,
		Cached:     cached,
	}
	if !outcome.Succeeded {
		outcome.Error = r.RawOutput
	}
	if err := s.publisher.Publish(ctx, events.NewClassificationEvent(outcome)); err != nil {
		s.logger.Warn("DRIVER", "Failed to publish event", map[string]interface{}{
			"id":    r.ID.String(),
			"error": err.Error(),
		})
	}
}

func (s *DriverService) finish(ctx context.Context, summary *RunSummary) {
	details := map[string]interface{}{
		"run_id":         summary.RunID,
		"total":          summary.Total,
		"skipped":        summary.Skipped,
		"classified":     summary.Classified,
		"failed":         summary.Failed,
		"persist_errors": summary.PersistErrors,
		"duration":       summary.Duration.String(),
	}
	if summary.Interrupted {
		s.logger.Warn("DRIVER", "Run interrupted", details)
	} else {
		s.logger.Info("DRIVER", "Run finished", details)
	}

	// The run context may already be canceled; give the final event its own budget.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	err := s.publisher.Publish(pubCtx, events.NewRunCompletedEvent(events.RunStats{
		RunID:         summary.RunID,
		Model:         s.cfg.Model,
		Total:         summary.Total,
		Skipped:       summary.Skipped,
		Classified:    summary.Classified,
		Failed:        summary.Failed,
		PersistErrors: summary.PersistErrors,
		Duration:      summary.Duration,
	}))
	if err != nil {
		s.logger.Warn("DRIVER", "Failed to publish run summary", map[string]interface{}{"error": err.Error()})
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
