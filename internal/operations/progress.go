package operations

import (
	"fmt"
	"io"

	"workshopcli/internal/exporter"
)

// sheetUnits names what one row of each report sheet stands for
var sheetUnits = map[string]string{
	exporter.SheetSummary:    "participants",
	exporter.SheetDetail:     "records",
	exporter.SheetStatistics: "rows",
}

// ProgressReporter prints run progress for the operator
type ProgressReporter struct {
	w       io.Writer
	total   int
	current int
}

// NewProgressReporter creates a reporter writing to w. A nil writer
// discards progress.
func NewProgressReporter(w io.Writer) *ProgressReporter {
	if w == nil {
		w = io.Discard
	}
	return &ProgressReporter{w: w}
}

// Found announces the number of workbooks discovered
func (p *ProgressReporter) Found(n int) {
	p.total = n
	p.current = 0
	fmt.Fprintf(p.w, "Found %d workbook files\n", n)
}

// Reading announces the workbook being read
func (p *ProgressReporter) Reading(name string) {
	p.current++
	fmt.Fprintf(p.w, "  Reading: %s\n", name)
}

// Percent returns the share of workbooks announced so far
func (p *ProgressReporter) Percent() float64 {
	if p.total == 0 {
		return 100
	}
	return float64(p.current) / float64(p.total) * 100
}

// Written announces the saved report with the row count of every sheet
func (p *ProgressReporter) Written(path string, tables []exporter.Table) {
	fmt.Fprintf(p.w, "\nReport written: %s\n", path)
	for _, table := range tables {
		unit, ok := sheetUnits[table.Name]
		if !ok {
			unit = "rows"
		}
		fmt.Fprintf(p.w, "  - %s: %d %s\n", table.Name, len(table.Rows), unit)
	}
}
