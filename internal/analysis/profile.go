package analysis

import (
	"assesscli/internal/dataset"
)

// ColumnProfile summarizes one column of an export for display
type ColumnProfile struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Label        string `json:"label,omitempty"`
	NonNullCount int    `json:"non_null_count"`
	NullCount    int    `json:"null_count"`
	UniqueValues int    `json:"unique_values"`
}

// DatasetProfile is the per-export overview table: shape, per-column null
// counts and the overall completeness rate.
type DatasetProfile struct {
	TotalRows        int             `json:"total_rows"`
	TotalColumns     int             `json:"total_columns"`
	Columns          []ColumnProfile `json:"column_info"`
	TotalCells       int             `json:"total_cells"`
	NullCells        int             `json:"null_cells"`
	CompletenessRate float64         `json:"completeness_rate"`
	EnglishColumns   []string        `json:"english_columns"`
}

// Profile computes the overview of one dataset against its classified schema
func Profile(ds *dataset.Dataset, schema *Schema) *DatasetProfile {
	p := &DatasetProfile{
		TotalRows:      ds.NumRows(),
		TotalColumns:   ds.NumColumns(),
		EnglishColumns: []string{},
	}

	for _, col := range schema.Columns {
		cp := ColumnProfile{
			Name:  col.Name,
			Role:  col.Role.String(),
			Label: col.Label,
		}
		unique := make(map[string]struct{})
		for _, cell := range ds.Column(col.Name) {
			if cell.IsNull() {
				cp.NullCount++
				continue
			}
			cp.NonNullCount++
			unique[cell.Text()] = struct{}{}
		}
		cp.UniqueValues = len(unique)
		p.Columns = append(p.Columns, cp)
		p.NullCells += cp.NullCount

		if (col.Role == RoleQuestion || col.Role == RolePoints) && col.Label != "" {
			p.EnglishColumns = append(p.EnglishColumns, col.Label)
		}
	}

	p.TotalCells = p.TotalRows * p.TotalColumns
	if p.TotalCells > 0 {
		p.CompletenessRate = round2(float64(p.TotalCells-p.NullCells) / float64(p.TotalCells) * 100)
	}
	return p
}
