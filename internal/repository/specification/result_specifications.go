package specification

import (
	"srh-intent/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByModel restricts results to one model's run history.
type ByModel struct {
	Model string
}

func (s ByModel) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("model = ?", s.Model)
}

type ByIdentifier struct {
	ID entity.RowID
}

func (s ByIdentifier) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("identifier = ?", s.ID.String())
}

type ByStatus struct {
	Status entity.ClassificationStatus
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

type ByRunID struct {
	RunID uuid.UUID
}

func (s ByRunID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("run_id = ?", s.RunID)
}

// InsertionOrder sorts by the surrogate key, which follows insert order.
func InsertionOrder() Specification {
	return OrderBy{Field: "id"}
}

// NewestFirst is InsertionOrder reversed.
func NewestFirst() Specification {
	return OrderBy{Field: "id", Desc: true}
}

// ResultFilter narrows a listing of stored results. Zero fields do not filter.
type ResultFilter struct {
	Model  string
	Status entity.ClassificationStatus
	RunID  *uuid.UUID
	ID     entity.RowID
}

func (f ResultFilter) Specifications() []Specification {
	var specs []Specification
	if f.Model != "" {
		specs = append(specs, ByModel{Model: f.Model})
	}
	if f.Status != "" {
		specs = append(specs, ByStatus{Status: f.Status})
	}
	if f.RunID != nil {
		specs = append(specs, ByRunID{RunID: *f.RunID})
	}
	if f.ID != "" {
		specs = append(specs, ByIdentifier{ID: f.ID})
	}
	return specs
}
