package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"assesscli/internal/dataset"
)

// mustDataset builds a dataset from a header row and cell rows, failing the
// test on any construction error.
func mustDataset(t *testing.T, columns []string, rows ...[]dataset.Cell) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(columns...)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, ds.AppendRow(row...))
	}
	return ds
}

// cells shortens row literals in tests
type cells = []dataset.Cell

func num(v float64) dataset.Cell { return dataset.Number(v) }
func str(s string) dataset.Cell  { return dataset.String(s) }
func null() dataset.Cell         { return dataset.Null() }
