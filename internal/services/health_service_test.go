package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assesscli/internal/config"
	"assesscli/internal/snapshot"
	ws "assesscli/internal/websocket"
)

func healthFixture(t *testing.T) (*HealthService, config.PathsConfig) {
	t.Helper()
	base := t.TempDir()
	paths := config.PathsConfig{
		UploadsDir:   filepath.Join(base, "uploads"),
		SnapshotsDir: filepath.Join(base, "snapshots"),
		ExportsDir:   filepath.Join(base, "exports"),
	}
	for _, dir := range []string{paths.UploadsDir, paths.SnapshotsDir, paths.ExportsDir} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	store, err := snapshot.NewStore(paths.SnapshotsDir, nil)
	require.NoError(t, err)

	return NewHealthService("1.0.0-test", paths, store, ws.NewHub(nil), nil), paths
}

func TestCheckHealthHealthy(t *testing.T) {
	svc, _ := healthFixture(t)

	status := svc.CheckHealth(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.0.0-test", status.Version)
	assert.Equal(t, "healthy", status.Checks["storage"].Status)
	assert.Equal(t, "healthy", status.Checks["snapshots"].Status)
	assert.Equal(t, "healthy", status.Checks["websocket"].Status)
	assert.NotEmpty(t, status.Runtime["go_version"])
}

func TestCheckHealthDegradedStorage(t *testing.T) {
	svc, paths := healthFixture(t)
	require.NoError(t, os.RemoveAll(paths.UploadsDir))

	status := svc.CheckHealth(context.Background())

	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "unhealthy", status.Checks["storage"].Status)
	assert.Contains(t, status.Checks["storage"].Message, "not writable")
}

func TestCheckHealthNoHub(t *testing.T) {
	base := t.TempDir()
	paths := config.PathsConfig{
		UploadsDir:   base,
		SnapshotsDir: base,
		ExportsDir:   base,
	}
	store, err := snapshot.NewStore(base, nil)
	require.NoError(t, err)

	svc := NewHealthService("dev", paths, store, nil, nil)
	status := svc.CheckHealth(context.Background())

	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "unhealthy", status.Checks["websocket"].Status)
}
