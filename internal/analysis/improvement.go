package analysis

import (
	"assesscli/internal/dataset"
)

// ImprovementRates computes, per score pair, the percentage of the matched
// cohort whose post score strictly exceeds their pre score. Only rows with a
// numeric value on both sides count toward the denominator; an empty
// denominator yields 0, never an error.
func ImprovementRates(pre, post *dataset.Dataset, m *Match, pairs []ScorePair) map[string]float64 {
	rates := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		improved, valid := countImprovement(pre, post, m, pair)
		rate := 0.0
		if valid > 0 {
			rate = float64(improved) / float64(valid) * 100
		}
		rates[pair.Label] = round2(rate)
	}
	return rates
}

// countImprovement counts strictly-improved and valid rows for one pair
func countImprovement(pre, post *dataset.Dataset, m *Match, pair ScorePair) (improved, valid int) {
	for _, id := range m.Inner {
		preVal, preOK := pre.Cell(m.PreRows[id], pair.PreColumn).Float()
		postVal, postOK := post.Cell(m.PostRows[id], pair.PostColumn).Float()
		if !preOK || !postOK {
			continue
		}
		valid++
		if postVal > preVal {
			improved++
		}
	}
	return improved, valid
}
