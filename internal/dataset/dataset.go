package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the scalar type held by a Cell
type Kind int

const (
	// KindNull marks an absent value
	KindNull Kind = iota
	// KindString holds free text
	KindString
	// KindNumber holds a float64
	KindNumber
	// KindTime holds a native date/time value
	KindTime
)

// Cell is a single scalar value in a dataset. The zero value is null.
type Cell struct {
	Kind Kind
	Str  string
	Num  float64
	Time time.Time
}

// Null returns an absent cell
func Null() Cell {
	return Cell{Kind: KindNull}
}

// String returns a text cell
func String(s string) Cell {
	return Cell{Kind: KindString, Str: s}
}

// Number returns a numeric cell
func Number(f float64) Cell {
	return Cell{Kind: KindNumber, Num: f}
}

// Timestamp returns a native date/time cell
func Timestamp(t time.Time) Cell {
	return Cell{Kind: KindTime, Time: t}
}

// IsNull reports whether the cell holds no value
func (c Cell) IsNull() bool {
	return c.Kind == KindNull
}

// Text renders the cell as text. Numbers render without a trailing ".0" for
// integral values, so the identifier 1024 compares equal whether the source
// stored it as text or as a number.
func (c Cell) Text() string {
	switch c.Kind {
	case KindString:
		return c.Str
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindTime:
		return c.Time.Format("02-01-2006 03:04:05 PM")
	default:
		return ""
	}
}

// Float returns the cell as a number. Text cells are parsed; null and
// unparsable cells report ok=false.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case KindNumber:
		return c.Num, true
	case KindString:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Str), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// Dataset is an ordered sequence of named columns over an ordered sequence of
// rows. Column names are unique; insertion order is the display order. The
// analysis engine treats datasets as read-only.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]Cell
}

// New creates an empty dataset with the given column order
func New(columns ...string) (*Dataset, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column name: %q", name)
		}
		index[name] = i
	}
	return &Dataset{
		columns: append([]string(nil), columns...),
		index:   index,
	}, nil
}

// Columns returns the column names in display order
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// NumColumns returns the number of columns
func (d *Dataset) NumColumns() int {
	return len(d.columns)
}

// NumRows returns the number of rows
func (d *Dataset) NumRows() int {
	return len(d.rows)
}

// HasColumn reports whether the named column exists
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// AppendRow adds a row. Short rows are padded with nulls; long rows are an error.
func (d *Dataset) AppendRow(cells ...Cell) error {
	if len(cells) > len(d.columns) {
		return fmt.Errorf("row has %d cells, dataset has %d columns", len(cells), len(d.columns))
	}
	row := make([]Cell, len(d.columns))
	copy(row, cells)
	d.rows = append(d.rows, row)
	return nil
}

// Cell returns the value at (row, column). Out-of-range access yields null.
func (d *Dataset) Cell(row int, column string) Cell {
	if row < 0 || row >= len(d.rows) {
		return Null()
	}
	i, ok := d.index[column]
	if !ok {
		return Null()
	}
	return d.rows[row][i]
}

// Column returns all values of the named column in row order
func (d *Dataset) Column(name string) []Cell {
	i, ok := d.index[name]
	if !ok {
		return nil
	}
	out := make([]Cell, len(d.rows))
	for r, row := range d.rows {
		out[r] = row[i]
	}
	return out
}
