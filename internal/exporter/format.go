package exporter

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// CellText returns the text a cell value displays as. Nil is blank.
func CellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return formatFloat(val)
	default:
		return fmt.Sprint(val)
	}
}

// formatFloat formats f with the fewest digits that represent it exactly
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ColumnWidths sizes each column to its longest cell, header included, in
// runes plus padding, capped at maxWidth.
func ColumnWidths(table Table, padding int, maxWidth float64) []float64 {
	longest := make([]int, len(table.Headers))
	measure := func(col int, v any) {
		for col >= len(longest) {
			longest = append(longest, 0)
		}
		longest[col] = max(longest[col], utf8.RuneCountInString(CellText(v)))
	}

	for col, header := range table.Headers {
		measure(col, header)
	}
	for _, row := range table.Rows {
		for col, cell := range row {
			measure(col, cell)
		}
	}

	widths := make([]float64, len(longest))
	for col, n := range longest {
		widths[col] = min(float64(n+padding), maxWidth)
	}
	return widths
}
