package research

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdevos2017/cot6930-200-a1/params"
)

func sampleResult(query, technique string) ExperimentResult {
	return ExperimentResult{
		Query:          query,
		Technique:      technique,
		Parameters:     params.Set{Temperature: 0.2, NumCtx: 2048, NumPredict: 1024},
		QualityScore:   0.88,
		IterationsUsed: 3,
		TimeTaken:      1.25,
		FinalPrompt:    "final " + query,
		RoleUsed:       "Teacher",
		Reasoning:      "test run",
	}
}

func TestStoreSaveAndLoadRoundTrip(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	want := sampleResult("q1", "socratic")
	require.NoError(t, store.SaveResult(ctx, want))

	got, err := store.LoadRun(ctx, store.RunID())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0])
}

func TestStoreSaveAllBatch(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	batch := []ExperimentResult{
		sampleResult("q1", "socratic"),
		sampleResult("q2", "chain_of_thought"),
		sampleResult("q3", "role_playing"),
	}
	require.NoError(t, store.SaveAll(ctx, batch))

	got, err := store.LoadRun(ctx, store.RunID())
	require.NoError(t, err)
	assert.Equal(t, batch, got)
}

func TestStoreLoadUnknownRun(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	got, err := store.LoadRun(context.Background(), "not-a-run")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStorePersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	ctx := context.Background()

	first, err := OpenStore(path)
	require.NoError(t, err)
	runID := first.RunID()
	require.NoError(t, first.SaveResult(ctx, sampleResult("q", "socratic")))
	require.NoError(t, first.Close())

	second, err := OpenStore(path)
	require.NoError(t, err)
	defer second.Close()

	// New store instance, new run ID, same data on disk.
	assert.NotEqual(t, runID, second.RunID())
	got, err := second.LoadRun(ctx, runID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
