package exporter

import (
	"fmt"

	"workshopcli/internal/config"
	"workshopcli/pkg/contracts/domain"
)

// Output sheet names, in workbook order
const (
	SheetSummary    = "Summary"
	SheetDetail     = "Detail by Activity"
	SheetStatistics = "Statistics"
)

var (
	detailHeaders = []string{
		"Participant", "No.", "Activity", "Start", "End", "Duration", "Errors", "Completed", "Notes",
	}
	statisticsHeaders = []string{
		"Activity", "Average Time", "Min Time", "Max Time", "Std. Deviation",
		"% With Errors", "% Completed", "Total Participants",
	}
)

// Table is one output sheet. Cells hold strings, integers, floats or nil
// for blank.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// BuildTables renders the report views as the three output tables. Summary
// columns follow the layout's task order.
func BuildTables(report *domain.WorkshopReport, layout config.Layout) []Table {
	return []Table{
		summaryTable(report.Summary, layout),
		detailTable(report.Detail),
		statisticsTable(report.Statistics),
	}
}

func summaryTable(rows []domain.ParticipantSummary, layout config.Layout) Table {
	headers := make([]string, 0, 2+3*len(layout.Tasks))
	headers = append(headers, "Participant")
	for _, task := range layout.Tasks {
		headers = append(headers,
			fmt.Sprintf("T%d Time", task.Number),
			fmt.Sprintf("T%d Errors", task.Number),
			fmt.Sprintf("T%d Completed", task.Number))
	}
	headers = append(headers, "Total Time")

	table := Table{Name: SheetSummary, Headers: headers, Rows: make([][]any, 0, len(rows))}
	for _, row := range rows {
		cells := make([]any, 0, len(headers))
		cells = append(cells, row.Participant)
		for i := range layout.Tasks {
			var task domain.TaskResult
			if i < len(row.Tasks) {
				task = row.Tasks[i]
			}
			cells = append(cells, seconds(task.Time), text(task.Errors), text(task.Completed))
		}
		cells = append(cells, seconds(row.Total))
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func detailTable(records []domain.ActivityRecord) Table {
	table := Table{Name: SheetDetail, Headers: detailHeaders, Rows: make([][]any, 0, len(records))}
	for _, r := range records {
		var number any
		if !r.Failed {
			number = r.Number
		}
		table.Rows = append(table.Rows, []any{
			r.Participant,
			number,
			r.Label,
			text(r.Start),
			text(r.End),
			seconds(r.Duration),
			text(r.Errors),
			text(r.Completed),
			text(r.Notes),
		})
	}
	return table
}

func statisticsTable(stats []domain.ActivityStatistic) Table {
	table := Table{Name: SheetStatistics, Headers: statisticsHeaders, Rows: make([][]any, 0, len(stats))}
	for _, s := range stats {
		table.Rows = append(table.Rows, []any{
			s.Activity,
			seconds(s.Mean),
			seconds(s.Min),
			seconds(s.Max),
			seconds(s.StdDev),
			percentage(s.ErrorRate),
			percentage(s.CompletionRate),
			s.Participants,
		})
	}
	return table
}

func seconds(s domain.Seconds) any {
	if !s.Valid {
		return nil
	}
	return s.String()
}

func percentage(p domain.Percentage) any {
	if !p.Valid {
		return nil
	}
	return p.Value
}

func text(s string) any {
	if s == "" {
		return nil
	}
	return s
}
