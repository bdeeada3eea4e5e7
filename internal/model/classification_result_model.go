package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ClassificationResult struct {
	Id         uint64            `gorm:"primaryKey;autoIncrement"`
	Identifier string            `gorm:"type:varchar(255);not null;uniqueIndex:idx_classification_results_identifier_model"`
	Model      string            `gorm:"type:varchar(255);not null;uniqueIndex:idx_classification_results_identifier_model"`
	Query      string            `gorm:"type:text;not null"`
	Topic      *string           `gorm:"type:varchar(255);index"`
	Subtopic   *string           `gorm:"type:varchar(255)"`
	Confidence *float64          `gorm:"type:double precision"`
	Reason     *string           `gorm:"type:text"`
	RawOutput  string            `gorm:"type:text"`
	Status     string            `gorm:"type:varchar(32);not null;index"`
	Attempts   int               `gorm:"not null;default:0"`
	RunId      *uuid.UUID        `gorm:"type:uuid;index"`
	Meta       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
}

func (ClassificationResult) TableName() string {
	return "classification_results"
}
