package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assesscli/internal/config"
)

func testApp(t *testing.T) *Application {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.UploadsDir = filepath.Join(base, "uploads")
	cfg.Paths.SnapshotsDir = filepath.Join(base, "snapshots")
	cfg.Paths.ExportsDir = filepath.Join(base, "exports")
	cfg.Security.RateLimit.Enabled = false

	application, err := NewWithConfig(cfg, nil, nil)
	require.NoError(t, err)
	return application
}

func TestRouterHealthEndpoint(t *testing.T) {
	application := testApp(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Contains(t, []interface{}{"healthy", "degraded"}, status["status"])
}

func TestRouterUnknownRouteIsProblem(t *testing.T) {
	application := testApp(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/not-found", problem["type"])
}

func TestRouterSnapshotNotFound(t *testing.T) {
	application := testApp(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snapshots/missing-id", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterSecurityHeaders(t *testing.T) {
	application := testApp(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouterMetricsDisabled(t *testing.T) {
	application := testApp(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
