// Package validation checks workbook files before they reach the loader so
// bad paths fail fast with a clear message instead of an excelize parse
// error.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// MaxWorkbookSize caps accepted workbook files at 50 MB
const MaxWorkbookSize int64 = 50 << 20

// WorkbookValidator validates assessment workbook files
type WorkbookValidator struct {
	logger *slog.Logger
}

// NewWorkbookValidator creates a new workbook validator
func NewWorkbookValidator(logger *slog.Logger) *WorkbookValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookValidator{logger: logger}
}

// ValidateWorkbook checks that path points to a readable xlsx file of
// acceptable size
func (v *WorkbookValidator) ValidateWorkbook(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("workbook path is empty")
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" {
		return fmt.Errorf("workbook %s: unsupported extension %q, expected .xlsx", filepath.Base(path), ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("workbook %s does not exist", path)
		}
		return fmt.Errorf("checking workbook %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("workbook %s is a directory", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("workbook %s is empty", path)
	}
	if info.Size() > MaxWorkbookSize {
		return fmt.Errorf("workbook %s is %d bytes, exceeds the %d byte limit", path, info.Size(), MaxWorkbookSize)
	}

	v.logger.Debug("workbook validated",
		slog.String("path", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateUploadName rejects names that would escape the uploads directory
// once joined to it
func (v *WorkbookValidator) ValidateUploadName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("upload name is empty")
	}
	if filepath.IsAbs(name) {
		return nil
	}
	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("upload name %q escapes the uploads directory", name)
	}
	return nil
}

// ValidateOutputDirectory ensures dir exists and is writable, creating it if
// needed
func (v *WorkbookValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	probe := filepath.Join(dir, ".write-check")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	os.Remove(probe)
	return nil
}
