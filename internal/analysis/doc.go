// Package analysis implements the assessment analysis engine: header
// classification for bilingual spreadsheet exports, identifier-keyed matching
// of pre and post datasets, and the derived metrics (per-question improvement
// rates, item difficulty index, date-grouped improvement, normalized gain and
// the weighted feedback score).
//
// The Analyzer runs one pass per request. Sections degrade independently:
// a dataset or column missing for one metric omits that section with a
// recorded reason and never blocks the others. The only hard failure is an
// unknown analysis category.
package analysis
