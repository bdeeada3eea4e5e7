package entity

import (
	"github.com/go-playground/validator/v10"
)

// ClassificationStatus tells whether a result carries a classification or a
// terminal failure. It is not part of the JSON artifact.
type ClassificationStatus string

const (
	StatusClassified ClassificationStatus = "CLASSIFIED"
	StatusFailed     ClassificationStatus = "FAILED"
)

// ErrorOutputPrefix marks raw_output of a row whose classification was exhausted.
const ErrorOutputPrefix = "[ERROR] "

// ClassificationResult is the persisted outcome for one query. JSON keys match
// the artifact format; records are never mutated once created.
type ClassificationResult struct {
	ID         RowID    `json:"Index" validate:"required"`
	Query      string   `json:"query"`
	Topic      *string  `json:"topic"`
	Subtopic   *string  `json:"subtopic"`
	Confidence *float64 `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	Reason     *string  `json:"reason"`
	RawOutput  string   `json:"raw_output"`
	Model      string   `json:"model"`

	Status   ClassificationStatus `json:"-"`
	Attempts int                  `json:"-"`
	RunID    string               `json:"-"`

	// Meta carries diagnostics for the database mirror and events only.
	Meta map[string]interface{} `json:"-"`
}

var validate = validator.New()

// Validate checks the struct constraints (identifier present, confidence in [0,1]).
func (r *ClassificationResult) Validate() error {
	return validate.Struct(r)
}

// Succeeded reports whether the record holds a classification. Records loaded
// from an artifact have no Status, so a non-empty topic decides.
func (r *ClassificationResult) Succeeded() bool {
	if r.Status != "" {
		return r.Status == StatusClassified
	}
	return r.Topic != nil && *r.Topic != ""
}

// WithRunID returns a copy of r stamped with the run that produced it.
func (r *ClassificationResult) WithRunID(runID string) *ClassificationResult {
	out := *r
	out.RunID = runID
	return &out
}

// StringOrEmpty dereferences an optional string field.
func StringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NewFailedResult builds the terminal record for a query whose classification
// was exhausted. Classification fields stay null.
func NewFailedResult(q Query, model string, err error, attempts int) *ClassificationResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &ClassificationResult{
		ID:        q.ID,
		Query:     q.Text,
		RawOutput: ErrorOutputPrefix + msg,
		Model:     model,
		Status:    StatusFailed,
		Attempts:  attempts,
	}
}
