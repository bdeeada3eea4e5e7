package specification

import (
	"testing"

	"srh-intent/internal/entity"
	"srh-intent/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB renders SQL without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=srh dbname=srh sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func render(db *gorm.DB, specs ...Specification) (string, []interface{}) {
	q := db.Model(&model.ClassificationResult{})
	for _, s := range specs {
		q = s.Apply(q)
	}
	var out []model.ClassificationResult
	stmt := q.Find(&out).Statement
	return stmt.SQL.String(), stmt.Vars
}

func TestResultFilterSpecifications(t *testing.T) {
	assert.Empty(t, ResultFilter{}.Specifications())

	runID := uuid.New()
	specs := ResultFilter{Model: "m", Status: entity.StatusFailed, RunID: &runID, ID: "42"}.Specifications()
	assert.Equal(t, []Specification{
		ByModel{Model: "m"},
		ByStatus{Status: entity.StatusFailed},
		ByRunID{RunID: runID},
		ByIdentifier{ID: "42"},
	}, specs)
}

func TestResultListingSQL(t *testing.T) {
	runID := uuid.New()
	filter := ResultFilter{Model: "sarvamai/sarvam-m", Status: entity.StatusFailed, RunID: &runID}
	specs := append(filter.Specifications(), NewestFirst(), Pagination{Limit: 20, Offset: 40})

	sql, vars := render(dryRunDB(t), specs...)

	assert.Contains(t, sql, `FROM "classification_results"`)
	assert.Contains(t, sql, "model = $1")
	assert.Contains(t, sql, "status = $2")
	assert.Contains(t, sql, "run_id = $3")
	assert.Contains(t, sql, "ORDER BY id DESC")
	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, sql, "OFFSET")
	assert.Equal(t, []interface{}{"sarvamai/sarvam-m", "FAILED", runID}, vars[:3])
}

func TestPaginationZeroLimitIsUnbounded(t *testing.T) {
	sql, _ := render(dryRunDB(t), InsertionOrder(), Pagination{})

	assert.Contains(t, sql, "ORDER BY id ASC")
	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "OFFSET")
}
