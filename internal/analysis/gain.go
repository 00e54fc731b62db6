package analysis

import (
	"sort"
	"strings"
	"time"

	"assesscli/internal/dataset"
)

// dateLabelLayout is the canonical date group label format
const dateLabelLayout = "02-01-2006"

// Lenient parse layouts: single-digit days, months and hours are accepted,
// as they appear in hand-edited exports.
const (
	dateTimeParseLayout = "2-1-2006 3:04:05 PM"
	dateParseLayout     = "2-1-2006"
)

// ExtractDate derives the DD-MM-YYYY group label from a start-time cell.
// Native date values are reformatted; strings are parsed first as a full
// timestamp, then by their first whitespace-delimited token. Rows without a
// parsable date fall out of date-wise grouping but still count in Combined.
func ExtractDate(cell dataset.Cell) (string, bool) {
	if cell.IsNull() {
		return "", false
	}
	if cell.Kind == dataset.KindTime {
		return cell.Time.Format(dateLabelLayout), true
	}

	s := strings.Join(strings.Fields(cell.Text()), " ")
	if t, err := time.Parse(dateTimeParseLayout, s); err == nil {
		return t.Format(dateLabelLayout), true
	}
	if fields := strings.Fields(s); len(fields) > 0 {
		if t, err := time.Parse(dateParseLayout, fields[0]); err == nil {
			return t.Format(dateLabelLayout), true
		}
	}
	return "", false
}

// GroupColumns names the columns feeding the date-grouped metrics
type GroupColumns struct {
	PreID, PostID               string
	PreTotal, PostTotal         string
	PreStartTime, PostStartTime string
	PreFaculty                  string // optional; empty when the pre dataset has none
}

// groupJoin is one group's inner-joined cohort
type groupJoin struct {
	ids      []string
	preRows  map[string]int
	postRows map[string]int
}

// grouper partitions both datasets by extracted date and joins each partition
type grouper struct {
	pre, post *dataset.Dataset
	cols      GroupColumns

	preDates  []string // per-row extracted date, "" when unparsable
	postDates []string
}

func newGrouper(pre, post *dataset.Dataset, cols GroupColumns) *grouper {
	g := &grouper{pre: pre, post: post, cols: cols}
	g.preDates = extractDates(pre, cols.PreStartTime)
	g.postDates = extractDates(post, cols.PostStartTime)
	return g
}

// extractDates computes the working copy of per-row date labels
func extractDates(ds *dataset.Dataset, startTimeColumn string) []string {
	dates := make([]string, ds.NumRows())
	for r := range dates {
		if label, ok := ExtractDate(ds.Cell(r, startTimeColumn)); ok {
			dates[r] = label
		}
	}
	return dates
}

// allDates returns the sorted union of date labels seen on either side
func (g *grouper) allDates() []string {
	seen := make(map[string]struct{})
	for _, d := range g.preDates {
		if d != "" {
			seen[d] = struct{}{}
		}
	}
	for _, d := range g.postDates {
		if d != "" {
			seen[d] = struct{}{}
		}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// join inner-joins the rows admitted by the filters, first row per id wins
func (g *grouper) join(preFilter, postFilter func(row int) bool) groupJoin {
	preRows := make(map[string]int)
	var order []string
	for r := 0; r < g.pre.NumRows(); r++ {
		if preFilter != nil && !preFilter(r) {
			continue
		}
		id := normalizeID(g.pre.Cell(r, g.cols.PreID))
		if id == "" {
			continue
		}
		if _, seen := preRows[id]; seen {
			continue
		}
		preRows[id] = r
		order = append(order, id)
	}

	postRows := make(map[string]int)
	for r := 0; r < g.post.NumRows(); r++ {
		if postFilter != nil && !postFilter(r) {
			continue
		}
		id := normalizeID(g.post.Cell(r, g.cols.PostID))
		if id == "" {
			continue
		}
		if _, seen := postRows[id]; seen {
			continue
		}
		postRows[id] = r
	}

	join := groupJoin{preRows: preRows, postRows: postRows}
	for _, id := range order {
		if _, inPost := postRows[id]; inPost {
			join.ids = append(join.ids, id)
		}
	}
	return join
}

// combined joins every matched row regardless of date
func (g *grouper) combined() groupJoin {
	return g.join(nil, nil)
}

// forDate joins within one date partition
func (g *grouper) forDate(date string) groupJoin {
	return g.join(
		func(r int) bool { return g.preDates[r] == date },
		func(r int) bool { return g.postDates[r] == date },
	)
}

// improvement computes the per-group improvement stats
func (g *grouper) improvement(date string, join groupJoin) GroupImprovement {
	improved, valid := 0, 0
	var faculty []string
	facultySeen := make(map[string]struct{})

	for _, id := range join.ids {
		preVal, preOK := g.pre.Cell(join.preRows[id], g.cols.PreTotal).Float()
		postVal, postOK := g.post.Cell(join.postRows[id], g.cols.PostTotal).Float()
		if !preOK || !postOK {
			continue
		}
		valid++
		if postVal > preVal {
			improved++
		}
		if g.cols.PreFaculty != "" {
			cell := g.pre.Cell(join.preRows[id], g.cols.PreFaculty)
			if !cell.IsNull() {
				name := cell.Text()
				if _, seen := facultySeen[name]; !seen {
					facultySeen[name] = struct{}{}
					faculty = append(faculty, name)
				}
			}
		}
	}

	rate := 0.0
	if valid > 0 {
		rate = float64(improved) / float64(valid) * 100
	}
	if faculty == nil {
		faculty = []string{}
	}

	return GroupImprovement{
		Rate:             round2(rate),
		ValidStudents:    valid,
		FacultyNames:     faculty,
		Date:             date,
		ImprovementCount: improved,
		TotalStudents:    valid,
	}
}

// gain computes the per-group normalized (Hake's) gain. Returns ok=false when
// the group has no valid rows.
func (g *grouper) gain(join groupJoin) (GainResult, bool) {
	var preVals, postVals []float64
	for _, id := range join.ids {
		preVal, preOK := g.pre.Cell(join.preRows[id], g.cols.PreTotal).Float()
		postVal, postOK := g.post.Cell(join.postRows[id], g.cols.PostTotal).Float()
		if !preOK || !postOK {
			continue
		}
		preVals = append(preVals, preVal)
		postVals = append(postVals, postVal)
	}

	if len(preVals) == 0 {
		return GainResult{}, false
	}

	avgPre := mean(preVals)
	avgPost := mean(postVals)
	preMax := maxOf(preVals)
	postMax := maxOf(postVals)

	normPre := 0.0
	if preMax > 0 {
		normPre = avgPre / preMax
	}
	normPost := 0.0
	if postMax > 0 {
		normPost = avgPost / postMax
	}

	// Guard the Hake's-gain singularity at normPre = 1
	gain := 0.0
	denom := 1 - normPre
	if preMax != 0 && postMax != 0 && denom != 0 {
		gain = (normPost - normPre) / denom
	}

	return GainResult{
		Gain:          round4(gain),
		AvgPreTest:    round2(avgPre),
		AvgPostTest:   round2(avgPost),
		PreMax:        preMax,
		PostMax:       postMax,
		NormPre:       round4(normPre),
		NormPost:      round4(normPost),
		ValidStudents: len(preVals),
	}, true
}

// GroupedImprovement computes the Combined group plus one group per extracted
// date. Date groups are emitted only when they have at least one valid row;
// Combined is always present.
func GroupedImprovement(pre, post *dataset.Dataset, cols GroupColumns) map[string]GroupImprovement {
	g := newGrouper(pre, post, cols)

	out := map[string]GroupImprovement{
		CombinedGroup: g.improvement(CombinedGroup, g.combined()),
	}
	for _, date := range g.allDates() {
		gi := g.improvement(date, g.forDate(date))
		if gi.ValidStudents > 0 {
			out[date] = gi
		}
	}
	return out
}

// NormalizedGain computes Hake's gain for the Combined group and each date
// group with at least one valid row.
func NormalizedGain(pre, post *dataset.Dataset, cols GroupColumns) map[string]GainResult {
	g := newGrouper(pre, post, cols)

	out := make(map[string]GainResult)
	if gr, ok := g.gain(g.combined()); ok {
		out[CombinedGroup] = gr
	}
	for _, date := range g.allDates() {
		if gr, ok := g.gain(g.forDate(date)); ok {
			out[date] = gr
		}
	}
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func maxOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
