package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "assesscli/internal/errors"
	"assesscli/internal/services"
)

// AnalysisHandler handles analysis runs and snapshot retrieval
type AnalysisHandler struct {
	service      *services.AnalysisService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *services.AnalysisService, logger *slog.Logger) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{
		service:      service,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// RegisterRoutes registers the analysis routes
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Route("/analysis", func(r chi.Router) {
		r.Post("/", h.RunAnalysis)
		r.Get("/latest", h.GetLatest)
	})
	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", h.ListSnapshots)
		r.Get("/{id}", h.GetSnapshot)
		r.Post("/{id}/export", h.ExportSnapshot)
	})
}

// RunAnalysis executes one analysis for a training schedule and returns the
// stored snapshot
func (h *AnalysisHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	var req services.AnalyzeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.respondError(w, r, apierrors.New(http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body: "+err.Error()))
		return
	}

	snap, err := h.service.AnalyzeSchedule(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, snap)
}

// GetLatest returns the most recent snapshot for a training, schedule and
// category
func (h *AnalysisHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	training := q.Get("training")
	schedule := q.Get("schedule")
	category := q.Get("category")
	if training == "" || schedule == "" || category == "" {
		h.respondError(w, r, apierrors.New(http.StatusBadRequest, "MISSING_PARAMETER", "training, schedule and category are required"))
		return
	}

	snap, err := h.service.LatestSnapshot(r.Context(), training, schedule, category)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, snap)
}

// ListSnapshots returns every stored snapshot, newest first
func (h *AnalysisHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.service.ListSnapshots(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"snapshots": snaps,
		"count":     len(snaps),
	})
}

// GetSnapshot returns one snapshot by ID
func (h *AnalysisHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.GetSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, snap)
}

// ExportSnapshot writes the snapshot's sections to CSV files and returns
// their paths relative to the exports directory
func (h *AnalysisHandler) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	files, err := h.service.ExportSnapshot(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"snapshot_id": id,
		"files":       files,
	})
}

// respondError maps service errors onto HTTP statuses before falling back to
// the generic problem mapping
func (h *AnalysisHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrSnapshotNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("snapshot"))
	case errors.Is(err, services.ErrInvalidRequest), errors.Is(err, services.ErrDatasetFileMissing):
		h.errorHandler.HandleError(w, r, apierrors.New(http.StatusBadRequest, "INVALID_PARAMETER", err.Error()))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
