package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackScore(t *testing.T) {
	cols := [4]string{"F1Que - A", "F2Que - B", "F3Que - C", "F4Que - D"}
	ds := mustDataset(t, cols[:],
		cells{num(4), num(5), num(3), num(4)},   // 1.2 + 1.25 + 0.75 + 0.8 = 4.0
		cells{num(2), num(2), num(2), num(2)},   // 2.0
		cells{num(5), null(), num(5), num(5)},   // missing subscore, excluded
		cells{str("4"), str("4"), num(4), num(4)}, // text numbers still count
	)

	result, ok := FeedbackScore(ds, cols)
	require.True(t, ok)

	assert.Equal(t, 3, result.ValidRows)
	// (4.0 + 2.0 + 4.0) / 3
	assert.InDelta(t, 3.33, result.WeightedAverage, 1e-9)
	assert.Equal(t, cols, result.Columns)
}

func TestFeedbackScoreNoValidRows(t *testing.T) {
	cols := [4]string{"F1", "F2", "F3", "F4"}
	ds := mustDataset(t, cols[:],
		cells{num(4), num(4), num(4), null()},
		cells{str("n/a"), num(4), num(4), num(4)},
	)

	_, ok := FeedbackScore(ds, cols)
	assert.False(t, ok)
}
