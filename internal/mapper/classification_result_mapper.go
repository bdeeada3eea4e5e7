package mapper

import (
	"srh-intent/internal/entity"
	"srh-intent/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ClassificationResultMapper struct{}

func NewClassificationResultMapper() *ClassificationResultMapper {
	return &ClassificationResultMapper{}
}

func (m *ClassificationResultMapper) ToEntity(r *model.ClassificationResult) *entity.ClassificationResult {
	if r == nil {
		return nil
	}

	var runID string
	if r.RunId != nil {
		runID = r.RunId.String()
	}

	var meta map[string]interface{}
	if len(r.Meta) > 0 {
		meta = map[string]interface{}(r.Meta)
	}

	return &entity.ClassificationResult{
		ID:         entity.RowID(r.Identifier),
		Query:      r.Query,
		Topic:      r.Topic,
		Subtopic:   r.Subtopic,
		Confidence: r.Confidence,
		Reason:     r.Reason,
		RawOutput:  r.RawOutput,
		Model:      r.Model,
		Status:     entity.ClassificationStatus(r.Status),
		Attempts:   r.Attempts,
		RunID:      runID,
		Meta:       meta,
	}
}

func (m *ClassificationResultMapper) ToModel(r *entity.ClassificationResult) *model.ClassificationResult {
	if r == nil {
		return nil
	}

	// Records loaded from an artifact carry no status.
	status := r.Status
	if status == "" {
		status = entity.StatusFailed
		if r.Succeeded() {
			status = entity.StatusClassified
		}
	}

	var runID *uuid.UUID
	if id, err := uuid.Parse(r.RunID); err == nil {
		runID = &id
	}

	var meta datatypes.JSONMap
	if len(r.Meta) > 0 {
		meta = datatypes.JSONMap(r.Meta)
	}

	return &model.ClassificationResult{
		Identifier: r.ID.String(),
		Model:      r.Model,
		Query:      r.Query,
		Topic:      r.Topic,
		Subtopic:   r.Subtopic,
		Confidence: r.Confidence,
		Reason:     r.Reason,
		RawOutput:  r.RawOutput,
		Status:     string(status),
		Attempts:   r.Attempts,
		RunId:      runID,
		Meta:       meta,
	}
}

func (m *ClassificationResultMapper) ToEntities(results []*model.ClassificationResult) []*entity.ClassificationResult {
	entities := make([]*entity.ClassificationResult, len(results))
	for i, r := range results {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
