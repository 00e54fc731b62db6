package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"assesscli/internal/config"
	"assesscli/internal/snapshot"
	ws "assesscli/internal/websocket"
)

// HealthService reports process and dependency health
type HealthService struct {
	version   string
	paths     config.PathsConfig
	store     *snapshot.Store
	hub       *ws.Hub
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the health check response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Checks    map[string]ServiceHealth `json:"checks,omitempty"`
}

// ServiceHealth is the health of one dependency
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, paths config.PathsConfig, store *snapshot.Store, hub *ws.Hub, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		paths:     paths,
		store:     store,
		hub:       hub,
		startTime: time.Now(),
		logger:    logger,
	}
}

// CheckHealth runs every dependency check and aggregates an overall status.
// Any failing check degrades the overall status to "degraded"; the endpoint
// still answers 200 so load balancers see liveness separately from readiness.
func (s *HealthService) CheckHealth(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Checks:    make(map[string]ServiceHealth),
	}

	status.Checks["storage"] = s.checkDirectories()
	status.Checks["snapshots"] = s.checkSnapshots()
	status.Checks["websocket"] = s.checkWebSocket()

	for name, check := range status.Checks {
		if check.Status != "healthy" {
			status.Status = "degraded"
			s.logger.WarnContext(ctx, "health check degraded",
				slog.String("check", name),
				slog.String("message", check.Message))
		}
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	status.Runtime = map[string]interface{}{
		"go_version":     runtime.Version(),
		"goroutines":     runtime.NumGoroutine(),
		"alloc_bytes":    mem.Alloc,
		"uptime_seconds": time.Since(s.startTime).Seconds(),
	}

	return status
}

// checkDirectories verifies the data directories exist and are writable
func (s *HealthService) checkDirectories() ServiceHealth {
	for _, dir := range []string{s.paths.UploadsDir, s.paths.SnapshotsDir, s.paths.ExportsDir} {
		probe := filepath.Join(dir, ".health")
		if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
			return ServiceHealth{
				Status:  "unhealthy",
				Message: fmt.Sprintf("directory %s not writable: %v", dir, err),
			}
		}
		os.Remove(probe)
	}
	return ServiceHealth{Status: "healthy"}
}

// checkSnapshots verifies the snapshot store is readable
func (s *HealthService) checkSnapshots() ServiceHealth {
	if s.store == nil {
		return ServiceHealth{Status: "unhealthy", Message: "snapshot store not configured"}
	}
	snaps, err := s.store.List()
	if err != nil {
		return ServiceHealth{Status: "unhealthy", Message: err.Error()}
	}
	return ServiceHealth{
		Status:  "healthy",
		Message: fmt.Sprintf("%d snapshots stored", len(snaps)),
	}
}

// checkWebSocket reports hub connectivity
func (s *HealthService) checkWebSocket() ServiceHealth {
	if s.hub == nil {
		return ServiceHealth{Status: "unhealthy", Message: "hub not configured"}
	}
	return ServiceHealth{
		Status:  "healthy",
		Message: fmt.Sprintf("%d clients connected", s.hub.ClientCount()),
	}
}
