package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"workshopcli/internal/config"
)

// Built-in number formats used by the fixtures
const (
	NumFmtGeneral   = 0
	NumFmtClockHM   = 20 // h:mm
	NumFmtClockHMS  = 21 // h:mm:ss
	NumFmtDateTime  = 22 // m/d/yy h:mm
	NumFmtElapsedHM = 46 // [h]:mm:ss
)

// TaskRow is one task row of a fixture workbook. Nil or empty fields leave
// the cell blank. Float values are written as numbers with the matching
// number format.
type TaskRow struct {
	ID          any
	Description string
	Start       any
	End         any
	Duration    any

	// DurationFmt is the built-in format of a numeric duration cell.
	// Zero means h:mm:ss unless DurationCustomFmt is set.
	DurationFmt       int
	DurationCustomFmt string

	Errors    string
	Completed string
	Notes     string
}

// ParticipantWorkbook describes one participant file.
type ParticipantWorkbook struct {
	// Sheet overrides the layout sheet name
	Sheet       string
	Participant string
	// Rows is keyed by layout task number
	Rows map[int]TaskRow
}

// DayFraction converts seconds into the spreadsheet day-fraction encoding.
func DayFraction(seconds int) float64 {
	return float64(seconds) / 86400
}

// Clock returns the day fraction of a time of day.
func Clock(h, m, s int) float64 {
	return DayFraction(h*3600 + m*60 + s)
}

// RowsFromSeconds builds one row per task with the given durations in
// seconds, numbering tasks from 1. A negative value leaves the duration
// blank. Every row is completed without errors.
func RowsFromSeconds(seconds ...int) map[int]TaskRow {
	rows := make(map[int]TaskRow, len(seconds))
	for i, s := range seconds {
		row := TaskRow{
			ID:        i + 1,
			Start:     Clock(9, i*5, 0),
			End:       Clock(9, i*5+2, 0),
			Errors:    "NO",
			Completed: "SI",
		}
		if s >= 0 {
			row.Duration = DayFraction(s)
		}
		rows[i+1] = row
	}
	return rows
}

// WriteParticipantWorkbook saves wb at path following layout and returns
// the path.
func WriteParticipantWorkbook(t *testing.T, path string, layout config.Layout, wb ParticipantWorkbook) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := wb.Sheet
	if sheet == "" {
		sheet = layout.Sheet
	}
	require.NoError(t, f.SetSheetName("Sheet1", sheet))

	w := &fixtureWriter{t: t, f: f, sheet: sheet, styles: make(map[string]int)}
	if wb.Participant != "" {
		w.set(layout.IdentityCell, wb.Participant, NumFmtGeneral, "")
	}

	cols := layout.Columns
	for number, row := range wb.Rows {
		task, ok := layout.Task(number)
		require.True(t, ok, "task %d is not part of the layout", number)
		r := task.Row

		w.set(layout.Cell(cols.ID, r), row.ID, NumFmtGeneral, "")
		w.set(layout.Cell(cols.Description, r), row.Description, NumFmtGeneral, "")
		w.set(layout.Cell(cols.Start, r), row.Start, NumFmtClockHM, "")
		w.set(layout.Cell(cols.End, r), row.End, NumFmtClockHM, "")

		durationFmt := row.DurationFmt
		if durationFmt == 0 && row.DurationCustomFmt == "" {
			durationFmt = NumFmtClockHMS
		}
		w.set(layout.Cell(cols.Duration, r), row.Duration, durationFmt, row.DurationCustomFmt)

		w.set(layout.Cell(cols.Errors, r), row.Errors, NumFmtGeneral, "")
		w.set(layout.Cell(cols.Completed, r), row.Completed, NumFmtGeneral, "")
		w.set(layout.Cell(cols.Notes, r), row.Notes, NumFmtGeneral, "")
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, f.SaveAs(path))
	return path
}

// WriteCorruptWorkbook writes a file with a workbook extension that is not a
// workbook.
func WriteCorruptWorkbook(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0644))
	return path
}

type fixtureWriter struct {
	t      *testing.T
	f      *excelize.File
	sheet  string
	styles map[string]int
}

func (w *fixtureWriter) set(cell string, value any, numFmt int, customFmt string) {
	w.t.Helper()

	switch v := value.(type) {
	case nil:
		return
	case string:
		if v == "" {
			return
		}
		require.NoError(w.t, w.f.SetCellStr(w.sheet, cell, v))
	case float64:
		require.NoError(w.t, w.f.SetCellFloat(w.sheet, cell, v, -1, 64))
		if numFmt != NumFmtGeneral || customFmt != "" {
			require.NoError(w.t, w.f.SetCellStyle(w.sheet, cell, cell, w.style(numFmt, customFmt)))
		}
	default:
		require.NoError(w.t, w.f.SetCellValue(w.sheet, cell, v))
	}
}

func (w *fixtureWriter) style(numFmt int, customFmt string) int {
	key := customFmt
	if key == "" {
		key = fmt.Sprintf("builtin:%d", numFmt)
	}
	if id, ok := w.styles[key]; ok {
		return id
	}

	style := &excelize.Style{NumFmt: numFmt}
	if customFmt != "" {
		style = &excelize.Style{CustomNumFmt: &customFmt}
	}
	id, err := w.f.NewStyle(style)
	require.NoError(w.t, err)
	w.styles[key] = id
	return id
}
