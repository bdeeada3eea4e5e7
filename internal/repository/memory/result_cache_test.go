package memory

import (
	"testing"
	"time"

	"srh-intent/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestResultCacheReusesByNormalizedText(t *testing.T) {
	c := NewResultCache(0)
	c.Save(&entity.ClassificationResult{
		ID:        "1",
		Query:     "Periods  late   kyun hote hain?",
		Topic:     strPtr("Menstruation"),
		Subtopic:  strPtr("Irregular Periods"),
		RawOutput: "raw",
		Model:     "m",
		Status:    entity.StatusClassified,
		Attempts:  2,
	})

	got, ok := c.Get(entity.Query{ID: "9", Text: "periods late kyun hote hain?"})
	require.True(t, ok)
	assert.Equal(t, entity.RowID("9"), got.ID)
	assert.Equal(t, "periods late kyun hote hain?", got.Query)
	assert.Equal(t, "Menstruation", *got.Topic)
	assert.Equal(t, "raw", got.RawOutput)
	assert.Zero(t, got.Attempts)
	assert.Equal(t, "1", got.Meta["cached_from"])

	_, ok = c.Get(entity.Query{ID: "10", Text: "something else"})
	assert.False(t, ok)
}

func TestResultCacheIgnoresFailures(t *testing.T) {
	c := NewResultCache(time.Minute)
	c.Save(entity.NewFailedResult(entity.Query{ID: "1", Text: "q"}, "m", assert.AnError, 3))
	c.Save(nil)
	assert.Zero(t, c.Len())
}

func TestResultCacheExpiry(t *testing.T) {
	c := NewResultCache(10 * time.Millisecond)
	c.Save(&entity.ClassificationResult{ID: "1", Query: "q", Topic: strPtr("HIV"), Status: entity.StatusClassified})

	_, ok := c.Get(entity.Query{ID: "2", Text: "q"})
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)
	_, ok = c.Get(entity.Query{ID: "2", Text: "q"})
	assert.False(t, ok)

	c.Flush()
	assert.Zero(t, c.Len())
}
