package implementation

import (
	"context"
	"os"
	"testing"

	"srh-intent/internal/entity"
	"srh-intent/internal/model"
	"srh-intent/internal/repository/specification"
	"srh-intent/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultRepositoryPostgres(t *testing.T) {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false, &model.ClassificationResult{})
	require.NoError(t, err)
	defer database.Close(db)

	modelName := "test-model-" + uuid.NewString()
	t.Cleanup(func() {
		db.Where("model = ?", modelName).Delete(&model.ClassificationResult{})
	})

	ctx := context.Background()
	repo := NewResultRepository(db, modelName)

	results, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, results.Len())

	runID := uuid.NewString()
	ok := classified("10", "Periods late kyun hote hain?")
	ok.Model = modelName
	ok.RunID = runID
	ok.Attempts = 1
	failed := entity.NewFailedResult(entity.Query{ID: "11", Text: "q"}, modelName, assert.AnError, 3)
	failed.RunID = runID
	failed.Meta = map[string]interface{}{"parse_status": "no_json"}

	require.NoError(t, repo.Append(ctx, results, ok))
	require.NoError(t, repo.Append(ctx, results, failed))

	// Same identifier and model again is ignored by the database.
	require.NoError(t, repo.Append(ctx, entity.NewResultCollection(nil), ok))

	reloaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.Len())
	records := reloaded.Records()
	assert.Equal(t, entity.RowID("10"), records[0].ID)
	assert.Equal(t, entity.StatusClassified, records[0].Status)
	assert.Equal(t, runID, records[0].RunID)
	assert.Equal(t, entity.StatusFailed, records[1].Status)
	assert.Equal(t, "no_json", records[1].Meta["parse_status"])

	count, err := repo.Count(ctx, specification.ByModel{Model: modelName}, specification.ByStatus{Status: entity.StatusFailed})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	found, err := repo.FindAll(ctx, specification.ByIdentifier{ID: "10"}, specification.ByModel{Model: modelName})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Contraception", *found[0].Topic)
}
