package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"workshopcli/internal/config"
	"workshopcli/internal/errors"
	"workshopcli/internal/infrastructure"
	"workshopcli/pkg/contracts/domain"
)

// FailedActivityLabel labels the detail row emitted for a workbook that
// could not be read.
const FailedActivityLabel = "EXTRACTION FAILED"

// Extractor reads participant workbooks that follow a Layout.
type Extractor struct {
	layout config.Layout
	logger *slog.Logger
}

// NewExtractor creates an extractor for layout.
func NewExtractor(layout config.Layout, logger *slog.Logger) *Extractor {
	return &Extractor{
		layout: layout,
		logger: infrastructure.WithComponent(logger, "extractor"),
	}
}

// ParseFile reads the participant identity and one activity record per
// layout task from the workbook at path. Cells are read as stored values,
// never as formulas. Unreadable cells become missing values; a workbook that
// cannot be opened or lacks the data sheet is a parsing error.
func (e *Extractor) ParseFile(ctx context.Context, path string) (*domain.ParticipantResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err).
			WithContext("file", path)
	}
	defer f.Close()

	sheet, err := e.findSheet(f)
	if err != nil {
		return nil, errors.NewParsingError("failed to locate data sheet", err).
			WithContext("file", path)
	}

	base := filepath.Base(path)
	participant := strings.TrimSpace(e.readText(ctx, f, sheet, e.layout.IdentityCell))
	if participant == "" {
		participant = fileStem(base)
	}

	result := &domain.ParticipantResult{
		Participant: participant,
		SourceFile:  base,
		Activities:  make([]domain.ActivityRecord, 0, len(e.layout.Tasks)),
	}

	cols := e.layout.Columns
	for _, task := range e.layout.Tasks {
		cell := func(column string) string { return e.layout.Cell(column, task.Row) }

		raw := e.readDuration(ctx, f, sheet, cell(cols.Duration))
		record := domain.ActivityRecord{
			Participant: participant,
			SourceFile:  base,
			Number:      e.readTaskNumber(ctx, f, sheet, cell(cols.ID), task.Number),
			Label:       task.Label,
			Description: e.readText(ctx, f, sheet, cell(cols.Description)),
			Start:       e.readText(ctx, f, sheet, cell(cols.Start)),
			End:         e.readText(ctx, f, sheet, cell(cols.End)),
			RawDuration: raw,
			Duration:    TimeToSeconds(raw),
			Errors:      e.readText(ctx, f, sheet, cell(cols.Errors)),
			Completed:   e.readText(ctx, f, sheet, cell(cols.Completed)),
			Notes:       e.readText(ctx, f, sheet, cell(cols.Notes)),
		}
		if !record.Duration.Valid && raw != nil {
			e.logger.DebugContext(ctx, "Unrecognized duration value",
				slog.String("file", base),
				slog.Int("task", task.Number),
				slog.String("type", fmt.Sprintf("%T", raw)))
		}
		result.Activities = append(result.Activities, record)
	}

	e.logger.DebugContext(ctx, "Workbook extracted",
		slog.String("file", base),
		slog.String("participant", participant),
		slog.String("sheet", sheet),
		slog.Int("activities", len(result.Activities)))

	return result, nil
}

// FailureResult is the stand-in for a workbook that could not be read: a
// single flagged detail row carrying the error text.
func FailureResult(path string, err error) domain.ParticipantResult {
	base := filepath.Base(path)
	return domain.ParticipantResult{
		Participant: fileStem(base),
		SourceFile:  base,
		Activities: []domain.ActivityRecord{{
			Participant: fileStem(base),
			SourceFile:  base,
			Label:       FailedActivityLabel,
			Notes:       err.Error(),
			Failed:      true,
		}},
		Err: err,
	}
}

// findSheet returns the layout sheet, falling back to a case-insensitive
// match that ignores surrounding whitespace.
func (e *Extractor) findSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	for _, name := range sheets {
		if name == e.layout.Sheet {
			return name, nil
		}
	}

	want := strings.TrimSpace(e.layout.Sheet)
	for _, name := range sheets {
		if strings.EqualFold(strings.TrimSpace(name), want) {
			return name, nil
		}
	}

	return "", errors.NewNotFoundError(fmt.Sprintf("sheet %q", e.layout.Sheet)).
		WithContext("sheets", sheets)
}

// readText returns the displayed text of a cell, or "" when it cannot be
// read.
func (e *Extractor) readText(ctx context.Context, f *excelize.File, sheet, cell string) string {
	value, err := f.GetCellValue(sheet, cell)
	if err != nil {
		e.logger.DebugContext(ctx, "Cell read failed", slog.String("cell", cell), slog.String("error", err.Error()))
		return ""
	}
	return value
}

// readTaskNumber returns the integer in the id cell, or fallback when the
// cell is blank or not a whole number.
func (e *Extractor) readTaskNumber(ctx context.Context, f *excelize.File, sheet, cell string, fallback int) int {
	raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		e.logger.DebugContext(ctx, "Cell read failed", slog.String("cell", cell), slog.String("error", err.Error()))
		return fallback
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v != math.Trunc(v) || math.IsInf(v, 0) {
		return fallback
	}
	return int(v)
}

// readDuration returns the duration cell classified by cell type and number
// format: time.Time, time.Duration, float64, string or nil.
func (e *Extractor) readDuration(ctx context.Context, f *excelize.File, sheet, cell string) any {
	raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		e.logger.DebugContext(ctx, "Cell read failed", slog.String("cell", cell), slog.String("error", err.Error()))
		return nil
	}
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	cellType, err := f.GetCellType(sheet, cell)
	if err != nil {
		return nil
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula,
		excelize.CellTypeBool, excelize.CellTypeError, excelize.CellTypeDate:
		return raw
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}

	var style *excelize.Style
	if idx, err := f.GetCellStyle(sheet, cell); err == nil {
		if s, err := f.GetStyle(idx); err == nil {
			style = s
		}
	}
	return numericCellValue(v, classifyStyle(style))
}

func fileStem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
