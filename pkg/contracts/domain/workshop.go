package domain

import "fmt"

// Seconds is a whole-second duration that may be missing.
// The zero value is the missing marker.
type Seconds struct {
	Value int64
	Valid bool
}

// SecondsOf returns a present Seconds value.
func SecondsOf(n int64) Seconds {
	return Seconds{Value: n, Valid: true}
}

// String renders the duration as zero-padded "MM:SS". There is no hour
// field, so durations of 100 minutes or more widen the minute field.
// Missing values render as an empty string. Negative values floor the
// minutes so the seconds stay in [0, 60): -90 renders as "-2:30".
func (s Seconds) String() string {
	if !s.Valid {
		return ""
	}
	m, sec := s.Value/60, s.Value%60
	if sec < 0 {
		m, sec = m-1, sec+60
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}

// ActivityRecord is one task performed by one participant, as read from the
// participant's workbook.
type ActivityRecord struct {
	Participant string `json:"participant"`
	SourceFile  string `json:"source_file"`

	// Number is the task number recorded in the workbook, or the layout
	// number when the workbook left it blank.
	Number      int    `json:"number"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`

	// RawDuration holds the duration cell after classification
	// (time.Time, time.Duration, float64, string or nil).
	RawDuration any     `json:"-"`
	Duration    Seconds `json:"-"`

	Errors    string `json:"errors,omitempty"`
	Completed string `json:"completed,omitempty"`
	Notes     string `json:"notes,omitempty"`

	// Failed marks the placeholder row emitted for a workbook that could not
	// be read when failures are isolated.
	Failed bool `json:"failed,omitempty"`
}

// ParticipantResult is the outcome of extracting one workbook.
type ParticipantResult struct {
	Participant string
	SourceFile  string
	Activities  []ActivityRecord

	// Err is set when extraction failed and the run continued anyway.
	Err error
}

// TaskResult is the per-task slice of a participant summary row.
type TaskResult struct {
	Time      Seconds
	Errors    string
	Completed string
}

// ParticipantSummary is one row of the summary view.
type ParticipantSummary struct {
	Participant      string
	Tasks            []TaskResult
	Total            Seconds
	MissingDurations int
}

// Percentage is a rate in percent that may be blank.
type Percentage struct {
	Value float64
	Valid bool
}

// PercentageOf returns a present Percentage value.
func PercentageOf(v float64) Percentage {
	return Percentage{Value: v, Valid: true}
}

// ActivityStatistic is one row of the statistics view. The trailing global
// row aggregates participant totals and leaves both rates blank.
type ActivityStatistic struct {
	Activity       string
	Mean           Seconds
	Min            Seconds
	Max            Seconds
	StdDev         Seconds
	ErrorRate      Percentage
	CompletionRate Percentage
	Participants   int
}

// WorkshopReport bundles the three views written to the output workbook.
type WorkshopReport struct {
	Summary    []ParticipantSummary
	Detail     []ActivityRecord
	Statistics []ActivityStatistic
	FileCount  int
}
