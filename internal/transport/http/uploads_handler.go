package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "assesscli/internal/errors"
	"assesscli/internal/files"
)

// UploadsHandler lists the workbook files available for analysis
type UploadsHandler struct {
	discovery    *files.Discovery
	errorHandler *apierrors.ErrorHandler
}

// NewUploadsHandler creates a new uploads handler over the uploads directory
func NewUploadsHandler(uploadsDir string, logger *slog.Logger) *UploadsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadsHandler{
		discovery:    files.NewDiscovery(uploadsDir),
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// RegisterRoutes registers the uploads routes
func (h *UploadsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/uploads", h.ListUploads)
}

// ListUploads returns every workbook in the uploads directory, newest first.
// Names are relative to the uploads directory and usable as file references
// in analysis requests.
func (h *UploadsHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	workbooks, err := h.discovery.ListWorkbooks()
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.FileSystemError("list uploads", err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"workbooks": workbooks,
		"count":     len(workbooks),
	})
}
