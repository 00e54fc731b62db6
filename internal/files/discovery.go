// Package files discovers assessment workbooks in the uploads directory so
// the API can list what is available to analyze.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// WorkbookInfo describes one discovered workbook file
type WorkbookInfo struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Discovery finds workbook files under a base directory
type Discovery struct {
	baseDir string
}

// NewDiscovery creates a discovery rooted at baseDir
func NewDiscovery(baseDir string) *Discovery {
	return &Discovery{baseDir: baseDir}
}

// ListWorkbooks returns every xlsx file under the base directory, newest
// first. Subdirectories are walked one level deep so uploads can be grouped
// per schedule.
func (d *Discovery) ListWorkbooks() ([]WorkbookInfo, error) {
	entries, err := os.ReadDir(d.baseDir)
	if err != nil {
		return nil, fmt.Errorf("reading uploads directory: %w", err)
	}

	var workbooks []WorkbookInfo
	for _, entry := range entries {
		if entry.IsDir() {
			nested, err := d.listDir(filepath.Join(d.baseDir, entry.Name()), entry.Name())
			if err != nil {
				return nil, err
			}
			workbooks = append(workbooks, nested...)
			continue
		}
		if info, ok := d.workbookInfo(entry, ""); ok {
			workbooks = append(workbooks, info)
		}
	}

	sort.Slice(workbooks, func(i, j int) bool {
		return workbooks[i].Modified.After(workbooks[j].Modified)
	})
	return workbooks, nil
}

// Latest returns the most recently modified workbook, or false when the
// directory holds none
func (d *Discovery) Latest() (WorkbookInfo, bool) {
	workbooks, err := d.ListWorkbooks()
	if err != nil || len(workbooks) == 0 {
		return WorkbookInfo{}, false
	}
	return workbooks[0], true
}

func (d *Discovery) listDir(dir, prefix string) ([]WorkbookInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading uploads directory %s: %w", dir, err)
	}
	var workbooks []WorkbookInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if info, ok := d.workbookInfo(entry, prefix); ok {
			workbooks = append(workbooks, info)
		}
	}
	return workbooks, nil
}

func (d *Discovery) workbookInfo(entry os.DirEntry, prefix string) (WorkbookInfo, bool) {
	name := entry.Name()
	if !strings.EqualFold(filepath.Ext(name), ".xlsx") || strings.HasPrefix(name, "~$") {
		return WorkbookInfo{}, false
	}
	fi, err := entry.Info()
	if err != nil {
		return WorkbookInfo{}, false
	}
	rel := name
	if prefix != "" {
		rel = prefix + "/" + name
	}
	return WorkbookInfo{
		Name:     rel,
		Path:     filepath.Join(d.baseDir, filepath.FromSlash(rel)),
		Size:     fi.Size(),
		Modified: fi.ModTime(),
	}, true
}
