package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"assesscli/internal/analysis"
	"assesscli/internal/config"
	"assesscli/internal/dataset"
	"assesscli/internal/exporter"
	"assesscli/internal/infrastructure"
	"assesscli/internal/snapshot"
	"assesscli/internal/validation"
	ws "assesscli/internal/websocket"
)

// validate checks AnalyzeRequest struct tags
var validate = validator.New()

// AnalyzeRequest identifies one analysis run: which training schedule it
// belongs to, which category to analyze, and where the workbooks are.
// Relative file paths resolve against the configured uploads directory.
type AnalyzeRequest struct {
	Training string `json:"training" validate:"required,max=200"`
	Schedule string `json:"schedule" validate:"required,max=200"`
	Category string `json:"category" validate:"required,oneof=pre post feedback"`

	// PreFile and PostFile feed the comparative categories. The companion
	// file may be absent; the engine then omits the comparative sections.
	PreFile  string `json:"pre_file,omitempty"`
	PostFile string `json:"post_file,omitempty"`

	// FeedbackFile feeds the feedback category
	FeedbackFile string `json:"feedback_file,omitempty"`
}

// AnalysisService runs assessment analyses end to end: loading workbooks,
// invoking the engine, persisting the snapshot, and exporting CSVs.
type AnalysisService struct {
	cfg       *config.Config
	analyzer  *analysis.Analyzer
	store     *snapshot.Store
	exporter  *exporter.ResultExporter
	hub       *ws.Hub
	metrics   *infrastructure.AnalysisMetrics
	validator *validation.WorkbookValidator
	logger    *slog.Logger
}

// NewAnalysisService creates a new analysis service. hub and metrics may be
// nil; broadcasting and instrumentation are then skipped.
func NewAnalysisService(cfg *config.Config, store *snapshot.Store, hub *ws.Hub, metrics *infrastructure.AnalysisMetrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		cfg:       cfg,
		analyzer:  analysis.NewAnalyzer(logger),
		store:     store,
		exporter:  exporter.NewResultExporter(exporter.NewCSVWriter(cfg.GetExportsDir(), logger)),
		hub:       hub,
		metrics:   metrics,
		validator: validation.NewWorkbookValidator(logger),
		logger:    logger,
	}
}

// AnalyzeSchedule runs one analysis and persists the result as a snapshot.
// The snapshot is returned with its assigned ID.
func (s *AnalysisService) AnalyzeSchedule(ctx context.Context, req AnalyzeRequest) (*snapshot.Snapshot, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	category, err := analysis.ParseCategory(req.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := s.checkFiles(category, req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Analysis.Timeout)
	defer cancel()

	logger := infrastructure.LoggerWithContext(ctx)
	logger.Info("analysis requested",
		slog.String("training", req.Training),
		slog.String("schedule", req.Schedule),
		slog.String("category", req.Category),
	)
	if s.hub != nil {
		s.hub.BroadcastAnalysisStarted(req.Training, req.Schedule, req.Category)
	}

	start := time.Now()
	snap, err := s.run(ctx, category, req)
	if s.metrics != nil {
		s.metrics.RecordAnalysis(ctx, req.Category, time.Since(start), err)
	}
	if err != nil {
		logger.Error("analysis failed",
			slog.String("training", req.Training),
			slog.String("schedule", req.Schedule),
			slog.String("error", err.Error()),
		)
		if s.hub != nil {
			s.hub.BroadcastAnalysisError(req.Training, req.Schedule, req.Category, err.Error())
		}
		return nil, err
	}

	logger.Info("analysis complete",
		slog.String("snapshot_id", snap.ID),
		slog.Duration("duration", time.Since(start)),
	)
	if s.hub != nil {
		s.hub.BroadcastAnalysisComplete(req.Training, req.Schedule, req.Category, snap.ID)
	}
	return snap, nil
}

// run loads the workbooks, invokes the engine and saves the snapshot
func (s *AnalysisService) run(ctx context.Context, category analysis.Category, req AnalyzeRequest) (*snapshot.Snapshot, error) {
	engineReq, err := s.loadDatasets(ctx, category, req)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(ctx, *engineReq)
	if err != nil {
		return nil, err
	}

	snap := &snapshot.Snapshot{
		Training: req.Training,
		Schedule: req.Schedule,
		Category: category,
		Result:   result,
	}
	if err := s.store.Save(snap); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}
	return snap, nil
}

// loadDatasets reads the requested workbooks concurrently. A missing
// companion file is not an error; the engine reports the omission itself.
func (s *AnalysisService) loadDatasets(ctx context.Context, category analysis.Category, req AnalyzeRequest) (*analysis.Request, error) {
	engineReq := &analysis.Request{Category: category}
	opts := dataset.LoadOptions{MaxRows: s.cfg.Analysis.MaxUploadRows}

	load := func(g *errgroup.Group, name, role string, target **dataset.Dataset) error {
		path, err := s.resolveWorkbook(name)
		if err != nil {
			return err
		}
		g.Go(func() error {
			ds, err := dataset.LoadWorkbook(path, opts, s.logger)
			if err != nil {
				return fmt.Errorf("loading %s workbook: %w", role, err)
			}
			*target = ds
			return nil
		})
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	if req.PreFile != "" {
		if err := load(g, req.PreFile, "pre", &engineReq.Pre); err != nil {
			return nil, err
		}
	}
	if req.PostFile != "" {
		if err := load(g, req.PostFile, "post", &engineReq.Post); err != nil {
			return nil, err
		}
	}
	if req.FeedbackFile != "" {
		if err := load(g, req.FeedbackFile, "feedback", &engineReq.Feedback); err != nil {
			return nil, err
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return engineReq, nil
}

// resolveWorkbook turns an upload name into a validated absolute path
func (s *AnalysisService) resolveWorkbook(name string) (string, error) {
	if err := s.validator.ValidateUploadName(name); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	path := s.resolveUpload(name)
	if err := s.validator.ValidateWorkbook(path); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return path, nil
}

// checkFiles ensures the category's primary workbook was supplied
func (s *AnalysisService) checkFiles(category analysis.Category, req AnalyzeRequest) error {
	switch category {
	case analysis.CategoryPre:
		if req.PreFile == "" {
			return fmt.Errorf("%w: pre_file is required for category pre", ErrDatasetFileMissing)
		}
	case analysis.CategoryPost:
		if req.PostFile == "" {
			return fmt.Errorf("%w: post_file is required for category post", ErrDatasetFileMissing)
		}
	case analysis.CategoryFeedback:
		if req.FeedbackFile == "" {
			return fmt.Errorf("%w: feedback_file is required for category feedback", ErrDatasetFileMissing)
		}
	}
	return nil
}

func (s *AnalysisService) resolveUpload(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.cfg.GetUploadsDir(), path)
}

// GetSnapshot returns one stored snapshot by ID
func (s *AnalysisService) GetSnapshot(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	snap, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return nil, err
	}
	return snap, nil
}

// LatestSnapshot returns the most recent snapshot for a schedule and category
func (s *AnalysisService) LatestSnapshot(ctx context.Context, training, schedule, category string) (*snapshot.Snapshot, error) {
	cat, err := analysis.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	snap, err := s.store.Latest(training, schedule, cat)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s/%s", ErrSnapshotNotFound, training, schedule, category)
		}
		return nil, err
	}
	return snap, nil
}

// ListSnapshots returns every stored snapshot, newest first
func (s *AnalysisService) ListSnapshots(ctx context.Context) ([]*snapshot.Snapshot, error) {
	return s.store.List()
}

// ExportSnapshot writes every produced section of a snapshot to CSV files
// under the exports directory and returns the written paths, relative to it.
func (s *AnalysisService) ExportSnapshot(ctx context.Context, id string) ([]string, error) {
	snap, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	files, err := s.exporter.ExportAll(snap.Result, snap.ID)
	if err != nil {
		return nil, fmt.Errorf("exporting snapshot %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "snapshot exported",
		slog.String("snapshot_id", id),
		slog.Int("files", len(files)),
	)
	if s.hub != nil {
		s.hub.Broadcast(ws.TypeExportComplete, map[string]interface{}{
			"snapshot_id": id,
			"files":       files,
		})
	}
	return files, nil
}
