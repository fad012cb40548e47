package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"workshopcli/internal/config"
	"workshopcli/internal/errors"
	"workshopcli/internal/infrastructure"
	"workshopcli/pkg/contracts/domain"
)

// WriterOptions controls column sizing.
type WriterOptions struct {
	ColumnPadding  int
	MaxColumnWidth float64
}

// DefaultWriterOptions pads columns by two characters and caps them at 50.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{
		ColumnPadding:  config.DefaultColumnPadding,
		MaxColumnWidth: config.DefaultMaxColumnWidth,
	}
}

// WorkbookWriter writes the workshop report as a multi-sheet workbook.
type WorkbookWriter struct {
	layout  config.Layout
	options WriterOptions
	logger  *slog.Logger
}

// NewWorkbookWriter creates a writer. The layout decides the summary
// columns.
func NewWorkbookWriter(layout config.Layout, options WriterOptions, logger *slog.Logger) *WorkbookWriter {
	return &WorkbookWriter{
		layout:  layout,
		options: options,
		logger:  infrastructure.WithComponent(logger, "workbook_writer"),
	}
}

// Write renders report and saves it at path, replacing any existing file.
// It returns the tables written so callers can report row counts.
func (w *WorkbookWriter) Write(ctx context.Context, path string, report *domain.WorkshopReport) ([]Table, error) {
	tables := BuildTables(report, w.layout)
	if err := w.WriteTables(ctx, path, tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// WriteTables saves one sheet per table, in order. Every sheet starts with
// its header row, even when it has no data rows.
func (w *WorkbookWriter) WriteTables(ctx context.Context, path string, tables []Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			w.logger.WarnContext(ctx, "Failed to close workbook", slog.String("error", err.Error()))
		}
	}()

	defaultSheet := f.GetSheetName(0)
	for i, table := range tables {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, table.Name); err != nil {
				return errors.NewStorageError("failed to name sheet", err).WithContext("sheet", table.Name)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return errors.NewStorageError("failed to add sheet", err).WithContext("sheet", table.Name)
		}

		if err := w.writeSheet(f, table); err != nil {
			return errors.NewStorageError("failed to write sheet", err).WithContext("sheet", table.Name)
		}

		w.logger.DebugContext(ctx, "Sheet written",
			slog.String("sheet", table.Name),
			slog.Int("rows", len(table.Rows)))
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "Report saved",
		slog.String("path", path),
		slog.Int("sheets", len(tables)))
	return nil
}

// writeSheet streams one table. Column widths must be set before any row.
func (w *WorkbookWriter) writeSheet(f *excelize.File, table Table) error {
	sw, err := f.NewStreamWriter(table.Name)
	if err != nil {
		return err
	}

	for i, width := range ColumnWidths(table, w.options.ColumnPadding, w.options.MaxColumnWidth) {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return fmt.Errorf("column %d: %w", i+1, err)
		}
	}

	header := make([]any, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	return sw.Flush()
}
