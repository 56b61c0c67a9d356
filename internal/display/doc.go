// Package display formats the human-readable report a bundle run and a check
// write to standard output.
//
// The report is not machine-parsed, but the plain-text form is stable so tests
// can match it exactly:
//
//	items.json (12 items)
//	talents.json (3 items)
//
//	all.json (has 15 total items across 2 categories)
//
// When the writer is a terminal, names are printed in cyan and the summary
// in green. All functions accept io.Writer for testability.
package display
