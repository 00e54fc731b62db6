package analysis

import (
	"assesscli/internal/dataset"
)

// Feedback subscore weights. F1 carries the course-content questions, hence
// the heavier weight.
const (
	f1Weight = 0.30
	f2Weight = 0.25
	f3Weight = 0.25
	f4Weight = 0.20
)

// FeedbackScore computes the weighted feedback average over a feedback
// export. A row qualifies only when all four subscore columns hold numeric
// values. Returns ok=false when no row qualifies.
func FeedbackScore(ds *dataset.Dataset, cols [4]string) (FeedbackResult, bool) {
	sum := 0.0
	validRows := 0

	for r := 0; r < ds.NumRows(); r++ {
		f1, ok1 := ds.Cell(r, cols[0]).Float()
		f2, ok2 := ds.Cell(r, cols[1]).Float()
		f3, ok3 := ds.Cell(r, cols[2]).Float()
		f4, ok4 := ds.Cell(r, cols[3]).Float()
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		sum += f1*f1Weight + f2*f2Weight + f3*f3Weight + f4*f4Weight
		validRows++
	}

	if validRows == 0 {
		return FeedbackResult{}, false
	}

	return FeedbackResult{
		WeightedAverage: round2(sum / float64(validRows)),
		ValidRows:       validRows,
		Columns:         cols,
	}, true
}
