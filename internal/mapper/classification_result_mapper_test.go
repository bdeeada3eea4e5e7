package mapper

import (
	"testing"

	"srh-intent/internal/entity"
	"srh-intent/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToModelDerivesStatusForLoadedRecords(t *testing.T) {
	m := NewClassificationResultMapper()
	topic := "Menstrual Health"

	ok := m.ToModel(&entity.ClassificationResult{ID: "4", Topic: &topic, Model: "m"})
	assert.Equal(t, string(entity.StatusClassified), ok.Status)
	assert.Nil(t, ok.RunId)

	failed := m.ToModel(&entity.ClassificationResult{ID: "5", RawOutput: "[ERROR] timeout", Model: "m"})
	assert.Equal(t, string(entity.StatusFailed), failed.Status)

	assert.Nil(t, m.ToModel(nil))
}

func TestRoundTripKeepsRunAndMeta(t *testing.T) {
	m := NewClassificationResultMapper()
	runID := uuid.New()
	conf := 0.8
	topic, sub := "Sexual Health", "Sexual Intercourse"

	in := &entity.ClassificationResult{
		ID:         "12",
		Query:      "kya ye safe hai",
		Topic:      &topic,
		Subtopic:   &sub,
		Confidence: &conf,
		RawOutput:  "```json{}```",
		Model:      "sarvamai/sarvam-m",
		Status:     entity.StatusClassified,
		Attempts:   2,
		RunID:      runID.String(),
		Meta:       map[string]interface{}{"cached_from": "3"},
	}

	row := m.ToModel(in)
	require.NotNil(t, row.RunId)
	assert.Equal(t, runID, *row.RunId)
	assert.Equal(t, "12", row.Identifier)

	out := m.ToEntity(row)
	assert.Equal(t, in, out)
}

func TestToEntitiesKeepsOrder(t *testing.T) {
	m := NewClassificationResultMapper()
	got := m.ToEntities([]*model.ClassificationResult{{Identifier: "2"}, {Identifier: "1"}})
	require.Len(t, got, 2)
	assert.Equal(t, entity.RowID("2"), got[0].ID)
	assert.Equal(t, entity.RowID("1"), got[1].ID)
}
