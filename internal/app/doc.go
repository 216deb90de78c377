// Package app wires the pipeline together: per input workbook it
// resolves the cutoff, extracts exam scores, counts mastery and late
// completions, joins everything into the student panel, and writes the
// shaped report workbook. Processing is sequential and single-shot; the
// only accumulating state is the append-only panel.
package app
