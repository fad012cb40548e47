package config

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Layout describes where participant data lives inside a workshop workbook.
// Every input workbook shares the same layout.
type Layout struct {
	Sheet        string           `yaml:"sheet" toml:"sheet" validate:"required"`
	IdentityCell string           `yaml:"identity_cell" toml:"identity_cell" validate:"required"`
	Columns      LayoutColumns    `yaml:"columns" toml:"columns"`
	Tasks        []TaskDescriptor `yaml:"tasks" toml:"tasks" validate:"required,min=1,dive"`
}

// LayoutColumns holds the column letter of each field in a task row.
type LayoutColumns struct {
	ID          string `yaml:"id" toml:"id" validate:"required,alpha"`
	Description string `yaml:"description" toml:"description" validate:"required,alpha"`
	Start       string `yaml:"start" toml:"start" validate:"required,alpha"`
	End         string `yaml:"end" toml:"end" validate:"required,alpha"`
	Duration    string `yaml:"duration" toml:"duration" validate:"required,alpha"`
	Errors      string `yaml:"errors" toml:"errors" validate:"required,alpha"`
	Completed   string `yaml:"completed" toml:"completed" validate:"required,alpha"`
	Notes       string `yaml:"notes" toml:"notes" validate:"required,alpha"`
}

// TaskDescriptor is one task of the workshop and the worksheet row holding it.
type TaskDescriptor struct {
	Number int    `yaml:"number" toml:"number" validate:"min=1"`
	Label  string `yaml:"label" toml:"label" validate:"required"`
	Row    int    `yaml:"row" toml:"row" validate:"min=1"`
}

// DefaultLayout returns the layout of the workshop data sheet: participant
// name in C7 and eight tasks on every other row from 17 to 31.
func DefaultLayout() Layout {
	labels := []string{
		"T1 - Ver pagos",
		"T2 - Ver control de bienes",
		"T3 - Ver Proyecto de Investigación",
		"T4 - Ver Obra de Producción Científica",
		"T5 - Comentar en Foro General",
		"T6 - Crear Evaluación Online",
		"T7 - Crear 3 preguntas",
		"T8 - Agregar Preguntas a Evaluación Online",
	}

	tasks := make([]TaskDescriptor, len(labels))
	for i, label := range labels {
		tasks[i] = TaskDescriptor{Number: i + 1, Label: label, Row: 17 + 2*i}
	}

	return Layout{
		Sheet:        "Datos",
		IdentityCell: "C7",
		Columns: LayoutColumns{
			ID:          "C",
			Description: "D",
			Start:       "E",
			End:         "F",
			Duration:    "G",
			Errors:      "H",
			Completed:   "I",
			Notes:       "J",
		},
		Tasks: tasks,
	}
}

// Cell returns the A1 reference of column in the given row.
func (l Layout) Cell(column string, row int) string {
	return fmt.Sprintf("%s%d", strings.ToUpper(column), row)
}

// Task returns the descriptor with the given number.
func (l Layout) Task(number int) (TaskDescriptor, bool) {
	for _, t := range l.Tasks {
		if t.Number == number {
			return t, true
		}
	}
	return TaskDescriptor{}, false
}

// validate checks what struct tags cannot: cell references and task
// uniqueness.
func (l Layout) validate() error {
	if _, _, err := excelize.CellNameToCoordinates(l.IdentityCell); err != nil {
		return fmt.Errorf("invalid identity cell %q: %w", l.IdentityCell, err)
	}

	cols := map[string]string{
		"id":          l.Columns.ID,
		"description": l.Columns.Description,
		"start":       l.Columns.Start,
		"end":         l.Columns.End,
		"duration":    l.Columns.Duration,
		"errors":      l.Columns.Errors,
		"completed":   l.Columns.Completed,
		"notes":       l.Columns.Notes,
	}
	for name, col := range cols {
		if _, err := excelize.ColumnNameToNumber(col); err != nil {
			return fmt.Errorf("invalid %s column %q: %w", name, col, err)
		}
	}

	numbers := make(map[int]bool, len(l.Tasks))
	rows := make(map[int]bool, len(l.Tasks))
	for _, t := range l.Tasks {
		if numbers[t.Number] {
			return fmt.Errorf("duplicate task number %d", t.Number)
		}
		if rows[t.Row] {
			return fmt.Errorf("duplicate task row %d", t.Row)
		}
		numbers[t.Number] = true
		rows[t.Row] = true
	}
	return nil
}
