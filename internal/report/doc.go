// Package report turns the aggregated grids into the output workbook:
// nine sheets in a fixed order (three long tables, three wide pivots,
// two late-completion distributions, run metadata), each with a bold
// frozen header row and content-sized columns.
package report
