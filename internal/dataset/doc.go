// Package dataset models a spreadsheet export as an ordered table of named
// columns and typed scalar cells, with an explicit null representation, and
// provides the excelize-backed loader that turns an xlsx file into one.
//
// The analysis engine consumes *Dataset values and never mutates them; any
// derived per-row state (extracted dates, normalized identifiers) lives in
// private working copies inside the engine.
package dataset
