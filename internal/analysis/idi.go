package analysis

import (
	"assesscli/internal/dataset"
)

// IDI status thresholds over the post-test index. 70.0 and 50.0 both land in
// "moderate".
const (
	idiGoodAbove    = 70.0
	idiModerateFrom = 50.0
)

// Status values for IDIResult
const (
	StatusGood           = "good"
	StatusModerate       = "moderate"
	StatusNeedsAttention = "needs_attention"
)

// ItemDifficulty computes the item difficulty index per matched points pair.
// Both sides are restricted to the matched cohort, consistent with the
// improvement-rate denominator; each side then counts its own non-null
// values independently. A point value of exactly 1 is a correct answer.
func ItemDifficulty(pre, post *dataset.Dataset, m *Match, pairs []ScorePair) map[string]IDIResult {
	results := make(map[string]IDIResult, len(pairs))
	for _, pair := range pairs {
		preCorrect, preTotal := countCorrect(pre, m.Inner, m.PreRows, pair.PreColumn)
		postCorrect, postTotal := countCorrect(post, m.Inner, m.PostRows, pair.PostColumn)

		preIDI := difficultyIndex(preCorrect, preTotal)
		postIDI := difficultyIndex(postCorrect, postTotal)

		results[pair.Label] = IDIResult{
			PreIDI:      preIDI,
			PostIDI:     postIDI,
			PreCorrect:  preCorrect,
			PreTotal:    preTotal,
			PostCorrect: postCorrect,
			PostTotal:   postTotal,
			Improvement: round2(postIDI - preIDI),
			Status:      idiStatus(postIDI),
		}
	}
	return results
}

// countCorrect tallies answers over the cohort for one side of a points pair.
// total counts rows with any non-null value; correct counts values equal to 1.
func countCorrect(ds *dataset.Dataset, cohort []string, rows map[string]int, column string) (correct, total int) {
	for _, id := range cohort {
		cell := ds.Cell(rows[id], column)
		if cell.IsNull() {
			continue
		}
		total++
		if v, ok := cell.Float(); ok && v == 1 {
			correct++
		}
	}
	return correct, total
}

// difficultyIndex is correct/total as a percentage, 0 when total is 0
func difficultyIndex(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(correct) / float64(total) * 100)
}

// idiStatus classifies the post-test index
func idiStatus(postIDI float64) string {
	switch {
	case postIDI > idiGoodAbove:
		return StatusGood
	case postIDI >= idiModerateFrom:
		return StatusModerate
	default:
		return StatusNeedsAttention
	}
}
