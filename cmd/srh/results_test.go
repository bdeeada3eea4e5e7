package main

import (
	"testing"

	"srh-intent/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setResultsFlags(t *testing.T, status, runID, model string, allModels bool) {
	t.Helper()
	saved := resultsFlags
	t.Cleanup(func() { resultsFlags = saved })
	resultsFlags.status = status
	resultsFlags.runID = runID
	resultsFlags.model = model
	resultsFlags.allModels = allModels
	resultsFlags.id = ""
}

func TestBuildResultFilter(t *testing.T) {
	setResultsFlags(t, "failed", "6f1c2a4e-8d1b-4c55-9a10-3d6f0b2e7c11", "", false)

	filter, err := buildResultFilter("gemma3:4b")
	require.NoError(t, err)
	assert.Equal(t, "gemma3:4b", filter.Model)
	assert.Equal(t, entity.StatusFailed, filter.Status)
	require.NotNil(t, filter.RunID)
	assert.Equal(t, "6f1c2a4e-8d1b-4c55-9a10-3d6f0b2e7c11", filter.RunID.String())
	assert.Len(t, filter.Specifications(), 3)
}

func TestBuildResultFilterModelOverrides(t *testing.T) {
	setResultsFlags(t, "", "", "llama3", false)
	filter, err := buildResultFilter("gemma3:4b")
	require.NoError(t, err)
	assert.Equal(t, "llama3", filter.Model)

	setResultsFlags(t, "Classified", "", "llama3", true)
	filter, err = buildResultFilter("gemma3:4b")
	require.NoError(t, err)
	assert.Empty(t, filter.Model)
	assert.Equal(t, entity.StatusClassified, filter.Status)
}

func TestBuildResultFilterRejectsBadInput(t *testing.T) {
	setResultsFlags(t, "pending", "", "", false)
	_, err := buildResultFilter("m")
	assert.ErrorContains(t, err, "unknown status")

	setResultsFlags(t, "", "not-a-uuid", "", false)
	_, err = buildResultFilter("m")
	assert.ErrorContains(t, err, "invalid run id")
}
