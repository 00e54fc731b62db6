package exporter

import (
	"fmt"
	"sort"
	"strings"

	"assesscli/internal/analysis"
)

// ResultExporter renders the tables of an analysis result as CSV files
type ResultExporter struct {
	writer *CSVWriter
}

// NewResultExporter creates a result exporter writing through the given CSV writer
func NewResultExporter(writer *CSVWriter) *ResultExporter {
	return &ResultExporter{writer: writer}
}

// ExportAll writes every produced section of the result into the named
// subdirectory, one file per section, and returns the relative paths written.
func (e *ResultExporter) ExportAll(result *analysis.Result, dir string) ([]string, error) {
	var written []string

	export := func(name string, fn func(string) error) error {
		path := fmt.Sprintf("%s/%s.csv", strings.TrimSuffix(dir, "/"), name)
		if err := fn(path); err != nil {
			return fmt.Errorf("exporting %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	if result.ImprovementRates != nil {
		if err := export("improvement_rates", func(p string) error {
			return e.ExportImprovement(result.ImprovementRates, p)
		}); err != nil {
			return written, err
		}
	}
	if result.IDIData != nil {
		if err := export("idi", func(p string) error {
			return e.ExportIDI(result.IDIData, p)
		}); err != nil {
			return written, err
		}
	}
	if result.GroupedImprovement != nil {
		if err := export("grouped_improvement", func(p string) error {
			return e.ExportGrouped(result.GroupedImprovement, p)
		}); err != nil {
			return written, err
		}
	}
	if result.NormalizedGain != nil {
		if err := export("normalized_gain", func(p string) error {
			return e.ExportGain(result.NormalizedGain, p)
		}); err != nil {
			return written, err
		}
	}
	if result.MissingAssessments != nil {
		if err := export("missing_assessments", func(p string) error {
			return e.ExportMissing(result.MissingAssessments, p)
		}); err != nil {
			return written, err
		}
	}

	return written, nil
}

// ExportImprovement writes the improvement-rate table. Total Points comes
// first, questions follow alphabetically.
func (e *ResultExporter) ExportImprovement(rates map[string]float64, path string) error {
	records := make([][]string, 0, len(rates))
	for _, label := range orderedLabels(rates, analysis.TotalPointsLabel) {
		records = append(records, []string{label, formatFloat(rates[label])})
	}
	return e.writer.WriteCSV(path, WriteOptions{
		Headers:   []string{"Question", "Improvement Rate (%)"},
		Records:   records,
		BOMPrefix: true,
	})
}

// ExportIDI writes the item difficulty table
func (e *ResultExporter) ExportIDI(data map[string]analysis.IDIResult, path string) error {
	records := make([][]string, 0, len(data))
	for _, label := range orderedLabels(data, "") {
		r := data[label]
		records = append(records, []string{
			label,
			formatFloat(r.PreIDI),
			formatFloat(r.PostIDI),
			formatInt(r.PreCorrect),
			formatInt(r.PreTotal),
			formatInt(r.PostCorrect),
			formatInt(r.PostTotal),
			formatFloat(r.Improvement),
			r.Status,
		})
	}
	return e.writer.WriteCSV(path, WriteOptions{
		Headers: []string{
			"Question", "Pre IDI (%)", "Post IDI (%)",
			"Pre Correct", "Pre Total", "Post Correct", "Post Total",
			"Improvement", "Status",
		},
		Records:   records,
		BOMPrefix: true,
	})
}

// ExportGrouped writes the date-grouped improvement table, Combined first
func (e *ResultExporter) ExportGrouped(groups map[string]analysis.GroupImprovement, path string) error {
	records := make([][]string, 0, len(groups))
	for _, label := range orderedLabels(groups, analysis.CombinedGroup) {
		g := groups[label]
		records = append(records, []string{
			label,
			formatFloat(g.Rate),
			formatInt(g.ImprovementCount),
			formatInt(g.TotalStudents),
			strings.Join(g.FacultyNames, "; "),
		})
	}
	return e.writer.WriteCSV(path, WriteOptions{
		Headers:   []string{"Group", "Improvement Rate (%)", "Improved", "Students", "Faculty"},
		Records:   records,
		BOMPrefix: true,
	})
}

// ExportGain writes the normalized gain table, Combined first
func (e *ResultExporter) ExportGain(gains map[string]analysis.GainResult, path string) error {
	records := make([][]string, 0, len(gains))
	for _, label := range orderedLabels(gains, analysis.CombinedGroup) {
		g := gains[label]
		records = append(records, []string{
			label,
			formatFloat4(g.Gain),
			formatFloat(g.AvgPreTest),
			formatFloat(g.AvgPostTest),
			formatFloat(g.PreMax),
			formatFloat(g.PostMax),
			formatFloat4(g.NormPre),
			formatFloat4(g.NormPost),
			formatInt(g.ValidStudents),
		})
	}
	return e.writer.WriteCSV(path, WriteOptions{
		Headers: []string{
			"Group", "Normalized Gain", "Avg Pre", "Avg Post",
			"Pre Max", "Post Max", "Norm Pre", "Norm Post", "Students",
		},
		Records:   records,
		BOMPrefix: true,
	})
}

// ExportMissing writes the missing-assessment table in its report order
func (e *ResultExporter) ExportMissing(missing []analysis.MissingAssessment, path string) error {
	records := make([][]string, 0, len(missing))
	for _, m := range missing {
		records = append(records, []string{
			formatInt(m.SrNo),
			m.PersNo,
			m.EmployeeName,
			m.Missing,
		})
	}
	return e.writer.WriteCSV(path, WriteOptions{
		Headers:   []string{"Sr No", "Pers No", "Employee Name", "Missing Assessment"},
		Records:   records,
		BOMPrefix: true,
	})
}

// orderedLabels sorts map keys alphabetically with an optional pinned first key
func orderedLabels[V any](m map[string]V, first string) []string {
	labels := make([]string, 0, len(m))
	for label := range m {
		if label == first {
			continue
		}
		labels = append(labels, label)
	}
	sort.Strings(labels)
	if first != "" {
		if _, ok := m[first]; ok {
			labels = append([]string{first}, labels...)
		}
	}
	return labels
}
