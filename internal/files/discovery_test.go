package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestListWorkbooks(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	touch(t, filepath.Join(dir, "pre.xlsx"), now.Add(-2*time.Hour))
	touch(t, filepath.Join(dir, "post.xlsx"), now.Add(-1*time.Hour))
	touch(t, filepath.Join(dir, "2025-05", "feedback.xlsx"), now)
	touch(t, filepath.Join(dir, "notes.txt"), now)
	touch(t, filepath.Join(dir, "~$post.xlsx"), now) // Excel lock file

	workbooks, err := NewDiscovery(dir).ListWorkbooks()
	require.NoError(t, err)
	require.Len(t, workbooks, 3)

	// Newest first, nested files keyed by their relative name
	assert.Equal(t, "2025-05/feedback.xlsx", workbooks[0].Name)
	assert.Equal(t, "post.xlsx", workbooks[1].Name)
	assert.Equal(t, "pre.xlsx", workbooks[2].Name)
	assert.Equal(t, int64(4), workbooks[0].Size)
}

func TestListWorkbooksEmptyDir(t *testing.T) {
	workbooks, err := NewDiscovery(t.TempDir()).ListWorkbooks()
	require.NoError(t, err)
	assert.Empty(t, workbooks)
}

func TestListWorkbooksMissingDir(t *testing.T) {
	_, err := NewDiscovery(filepath.Join(t.TempDir(), "absent")).ListWorkbooks()
	assert.Error(t, err)
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	touch(t, filepath.Join(dir, "old.xlsx"), now.Add(-time.Hour))
	touch(t, filepath.Join(dir, "new.xlsx"), now)

	latest, ok := NewDiscovery(dir).Latest()
	require.True(t, ok)
	assert.Equal(t, "new.xlsx", latest.Name)

	_, ok = NewDiscovery(t.TempDir()).Latest()
	assert.False(t, ok)
}
