package events

import (
	"time"
)

const (
	TypeQueryClassified           = "QUERY_CLASSIFIED"
	TypeQueryClassificationFailed = "QUERY_CLASSIFICATION_FAILED"
	TypeRunCompleted              = "RUN_COMPLETED"
)

// ClassificationOutcome is the subset of a classification result that is
// published. It is kept free of internal types so consumers can decode it.
type ClassificationOutcome struct {
	RunID      string
	ID         string
	Model      string
	Succeeded  bool
	Topic      string
	Subtopic   string
	Confidence *float64
	Attempts   int
	Cached     bool
	Error      string
}

func NewClassificationEvent(o ClassificationOutcome) BaseEvent {
	eventType := TypeQueryClassified
	data := map[string]interface{}{
		"run_id":   o.RunID,
		"id":       o.ID,
		"model":    o.Model,
		"attempts": o.Attempts,
		"cached":   o.Cached,
	}

	if o.Succeeded {
		data["topic"] = o.Topic
		data["subtopic"] = o.Subtopic
		if o.Confidence != nil {
			data["confidence"] = *o.Confidence
		}
	} else {
		eventType = TypeQueryClassificationFailed
		data["error"] = o.Error
	}

	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

// RunStats is published once when a run ends.
type RunStats struct {
	RunID         string
	Model         string
	Total         int
	Skipped       int
	Classified    int
	Failed        int
	PersistErrors int
	Duration      time.Duration
}

func NewRunCompletedEvent(s RunStats) BaseEvent {
	return BaseEvent{
		Type: TypeRunCompleted,
		Data: map[string]interface{}{
			"run_id":         s.RunID,
			"model":          s.Model,
			"total":          s.Total,
			"skipped":        s.Skipped,
			"classified":     s.Classified,
			"failed":         s.Failed,
			"persist_errors": s.PersistErrors,
			"duration_ms":    s.Duration.Milliseconds(),
		},
		OccurredAt: time.Now().UTC(),
	}
}
