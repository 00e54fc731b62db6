package dataset

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadOptions configures workbook loading
type LoadOptions struct {
	// Sheet selects a sheet by name; empty means the first sheet.
	Sheet string
	// MaxRows caps how many data rows are read; 0 means no cap.
	MaxRows int
}

// LoadWorkbook reads an assessment export Excel file into a Dataset. The
// first non-empty row is treated as the header row; everything below it is
// data. Cells that parse as numbers become numeric cells, everything else
// stays text.
func LoadWorkbook(filePath string, opts LoadOptions, logger *slog.Logger) (*Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheetName := opts.Sheet
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	headerRow := -1
	for i, row := range rows {
		if !rowIsEmpty(row) {
			headerRow = i
			break
		}
	}
	if headerRow == -1 {
		return nil, fmt.Errorf("no header row found in sheet %q", sheetName)
	}

	headers := dedupeHeaders(rows[headerRow])

	ds, err := New(headers...)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset: %w", err)
	}

	loaded := 0
	for i := headerRow + 1; i < len(rows); i++ {
		if opts.MaxRows > 0 && loaded >= opts.MaxRows {
			logger.Warn("row cap reached, remaining rows skipped",
				slog.String("file_path", filePath),
				slog.Int("max_rows", opts.MaxRows))
			break
		}
		if rowIsEmpty(rows[i]) {
			continue
		}
		cells := make([]Cell, len(headers))
		for j := range headers {
			var raw string
			if j < len(rows[i]) {
				raw = rows[i][j]
			}
			cells[j] = cellFromText(raw)
		}
		if err := ds.AppendRow(cells...); err != nil {
			return nil, fmt.Errorf("failed to append row %d: %w", i, err)
		}
		loaded++
	}

	logger.Info("workbook loaded",
		slog.String("file_path", filePath),
		slog.String("sheet", sheetName),
		slog.Int("columns", ds.NumColumns()),
		slog.Int("rows", ds.NumRows()))

	return ds, nil
}

// cellFromText converts a formatted spreadsheet value to a Cell
func cellFromText(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Null()
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64); err == nil {
		return Number(v)
	}
	return String(raw)
}

// rowIsEmpty reports whether every cell in the row is blank
func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// dedupeHeaders makes column names unique, numbering repeats
func dedupeHeaders(row []string) []string {
	counts := make(map[string]int)
	out := make([]string, len(row))
	for i, name := range row {
		name = strings.TrimRight(name, "\r\n")
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		counts[name]++
		if counts[name] > 1 {
			name = fmt.Sprintf("%s (%d)", name, counts[name])
		}
		out[i] = name
	}
	return out
}
