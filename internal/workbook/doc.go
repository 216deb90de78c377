// Package workbook locates sheets and columns inside the source Excel
// workbooks and coerces their cells.
//
// Headers are produced by humans and mildly inconsistent (full/half-width
// spaces, year prefixes on sheet names), so matching is fuzzy:
// whitespace-normalized substring and regex matching, never positional
// except for the fixed completion-date fallback column. A sheet or column
// that does not match contributes nothing; absence is not an error.
package workbook
