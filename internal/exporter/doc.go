// Package exporter writes the consolidated workshop report.
//
// The report is rendered into three tables, written as sheets in this order:
//
//   - Summary: one row per participant with time, errors and completion per
//     task and the total time
//   - Detail by Activity: one row per participant and task
//   - Statistics: one row per task plus the global row over participant
//     totals
//
// Durations are rendered as MM:SS text and blank values are left as empty
// cells. Each column is sized to its longest cell plus padding, capped at
// WriterOptions.MaxColumnWidth.
//
// Example usage:
//
//	writer := exporter.NewWorkbookWriter(cfg.Layout, exporter.DefaultWriterOptions(), logger)
//	tables, err := writer.Write(ctx, "workshop_results.xlsx", report)
package exporter
