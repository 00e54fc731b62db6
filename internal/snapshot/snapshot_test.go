package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assesscli/internal/analysis"
)

func testResult(rate float64) *analysis.Result {
	return &analysis.Result{
		Category:         analysis.CategoryPre,
		ImprovementRates: map[string]float64{analysis.TotalPointsLabel: rate},
	}
}

func TestStoreSaveAndGet(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)

	snap := &Snapshot{
		Training: "fire-safety",
		Schedule: "2025-05-01",
		Category: analysis.CategoryPre,
		Result:   testResult(50),
	}
	require.NoError(t, store.Save(snap))
	require.NotEmpty(t, snap.ID)
	assert.False(t, snap.CreatedAt.IsZero())

	loaded, err := store.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.Training, loaded.Training)
	assert.InDelta(t, 50.0, loaded.Result.ImprovementRates[analysis.TotalPointsLabel], 1e-9)
}

func TestStoreSaveRejectsEmptyResult(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)

	assert.Error(t, store.Save(&Snapshot{Training: "x"}))
}

func TestStoreGetUnknownID(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = store.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = store.Get("../escape")
	assert.Error(t, err)
}

func TestStoreLatestWins(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)

	older := &Snapshot{Training: "t", Schedule: "s", Category: analysis.CategoryPre, Result: testResult(10)}
	require.NoError(t, store.Save(older))
	newer := &Snapshot{Training: "t", Schedule: "s", Category: analysis.CategoryPre, Result: testResult(20)}
	require.NoError(t, store.Save(newer))
	other := &Snapshot{Training: "t", Schedule: "s", Category: analysis.CategoryPost, Result: testResult(30)}
	require.NoError(t, store.Save(other))

	latest, err := store.Latest("t", "s", analysis.CategoryPre)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	_, err = store.Latest("t", "s", analysis.CategoryFeedback)
	assert.Error(t, err)
}

func TestStoreListSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	good := &Snapshot{Training: "t", Schedule: "s", Category: analysis.CategoryPre, Result: testResult(10)}
	require.NoError(t, store.Save(good))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corrupt.json"), []byte("{"), 0644))

	snaps, err := store.List()
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, good.ID, snaps[0].ID)
}
