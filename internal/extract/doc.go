// Package extract reads per-student data out of a source workbook: exam
// scores from the results sheets, and mastery / late-completion counts
// from the per-unit sheets. Extraction failures degrade to zero
// contribution; only an unreadable sheet is an error.
package extract
