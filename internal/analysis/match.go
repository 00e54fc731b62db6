package analysis

import (
	"strings"

	"assesscli/internal/dataset"
)

// Match is the result of joining two datasets on their identifier columns.
// Inner holds identifiers present in both sides; OnlyPre/OnlyPost hold the
// difference sets. Row maps point at the first row carrying each identifier,
// so duplicated identifiers degrade to first-match-wins instead of failing.
type Match struct {
	Inner    []string
	OnlyPre  []string
	OnlyPost []string

	PreRows  map[string]int
	PostRows map[string]int
}

// normalizeID casts an identifier cell to trimmed text. Null and blank cells
// yield "", which callers treat as no identifier.
func normalizeID(cell dataset.Cell) string {
	if cell.IsNull() {
		return ""
	}
	return strings.TrimSpace(cell.Text())
}

// indexIdentifiers maps normalized identifier -> first row index, preserving
// first-seen order.
func indexIdentifiers(ds *dataset.Dataset, idColumn string) (map[string]int, []string) {
	rows := make(map[string]int)
	var order []string
	for r := 0; r < ds.NumRows(); r++ {
		id := normalizeID(ds.Cell(r, idColumn))
		if id == "" {
			continue
		}
		if _, seen := rows[id]; seen {
			continue
		}
		rows[id] = r
		order = append(order, id)
	}
	return rows, order
}

// MatchIdentifiers joins pre and post on their identifier columns. The inner
// cohort drives every comparative metric; the difference sets drive the
// missing-assessment report. Inputs are never mutated.
func MatchIdentifiers(pre, post *dataset.Dataset, preIDColumn, postIDColumn string) (*Match, error) {
	if preIDColumn == "" || !pre.HasColumn(preIDColumn) {
		return nil, NewSchemaError("identifier", "identifier column missing from pre dataset")
	}
	if postIDColumn == "" || !post.HasColumn(postIDColumn) {
		return nil, NewSchemaError("identifier", "identifier column missing from post dataset")
	}

	preRows, preOrder := indexIdentifiers(pre, preIDColumn)
	postRows, _ := indexIdentifiers(post, postIDColumn)

	m := &Match{
		PreRows:  preRows,
		PostRows: postRows,
	}

	for _, id := range preOrder {
		if _, inPost := postRows[id]; inPost {
			m.Inner = append(m.Inner, id)
		} else {
			m.OnlyPre = append(m.OnlyPre, id)
		}
	}

	// Post-only set in post row order
	for r := 0; r < post.NumRows(); r++ {
		id := normalizeID(post.Cell(r, postIDColumn))
		if id == "" || postRows[id] != r {
			continue
		}
		if _, inPre := preRows[id]; !inPre {
			m.OnlyPost = append(m.OnlyPost, id)
		}
	}

	return m, nil
}
