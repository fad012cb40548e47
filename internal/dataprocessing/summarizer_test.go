package dataprocessing

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshopcli/internal/config"
	"workshopcli/pkg/contracts/domain"
)

// participant builds an extraction result with one activity per layout task.
// A negative duration is missing.
func participant(name string, seconds ...int64) domain.ParticipantResult {
	layout := config.DefaultLayout()
	result := domain.ParticipantResult{Participant: name, SourceFile: name + ".xlsm"}
	for i, task := range layout.Tasks {
		record := domain.ActivityRecord{
			Participant: name,
			SourceFile:  name + ".xlsm",
			Number:      task.Number,
			Label:       task.Label,
			Errors:      "NO",
			Completed:   "SI",
		}
		if i < len(seconds) && seconds[i] >= 0 {
			record.Duration = domain.SecondsOf(seconds[i])
		}
		result.Activities = append(result.Activities, record)
	}
	return result
}

func newTestSummarizer(excludeIncomplete bool) *Summarizer {
	return NewSummarizer(nil, SummarizerConfig{
		Layout:            config.DefaultLayout(),
		AffirmativeToken:  "SI",
		ExcludeIncomplete: excludeIncomplete,
	})
}

func TestBuildTaskStatistics(t *testing.T) {
	results := []domain.ParticipantResult{
		participant("ana", 60),
		participant("ben", 120),
		participant("cai", -1),
	}

	report := newTestSummarizer(false).Build(context.Background(), results, len(results))
	require.Len(t, report.Statistics, 9)

	first := report.Statistics[0]
	assert.Equal(t, "T1 - Ver pagos", first.Activity)
	assert.Equal(t, "01:30", first.Mean.String())
	assert.Equal(t, "01:00", first.Min.String())
	assert.Equal(t, "02:00", first.Max.String())
	assert.Equal(t, "00:42", first.StdDev.String())
	assert.Equal(t, 2, first.Participants)
	assert.Equal(t, domain.PercentageOf(0), first.ErrorRate)
	assert.Equal(t, domain.PercentageOf(100), first.CompletionRate)

	// Tasks with no durations at all stay blank but still report rates
	second := report.Statistics[1]
	assert.False(t, second.Mean.Valid)
	assert.False(t, second.StdDev.Valid)
	assert.Equal(t, 0, second.Participants)
	assert.Equal(t, domain.PercentageOf(100), second.CompletionRate)
}

func TestBuildSingleSampleHasNoDeviation(t *testing.T) {
	report := newTestSummarizer(false).Build(context.Background(),
		[]domain.ParticipantResult{participant("ana", 75)}, 1)

	first := report.Statistics[0]
	assert.Equal(t, domain.SecondsOf(75), first.Mean)
	assert.Equal(t, domain.SecondsOf(75), first.Min)
	assert.Equal(t, domain.SecondsOf(75), first.Max)
	assert.False(t, first.StdDev.Valid)
}

func TestBuildZeroFiles(t *testing.T) {
	report := newTestSummarizer(false).Build(context.Background(), nil, 0)

	assert.Empty(t, report.Summary)
	assert.Empty(t, report.Detail)
	require.Len(t, report.Statistics, 9)
	for _, stat := range report.Statistics[:8] {
		assert.False(t, stat.Mean.Valid)
		assert.Equal(t, domain.PercentageOf(0), stat.ErrorRate)
		assert.Equal(t, domain.PercentageOf(0), stat.CompletionRate)
		assert.Zero(t, stat.Participants)
	}

	global := report.Statistics[8]
	assert.Equal(t, GlobalStatisticLabel, global.Activity)
	assert.False(t, global.Mean.Valid)
	assert.False(t, global.ErrorRate.Valid)
	assert.False(t, global.CompletionRate.Valid)
	assert.Zero(t, global.Participants)
}

func TestBuildSummaryTotals(t *testing.T) {
	results := []domain.ParticipantResult{
		participant("ana", 60, 120, 30, 30, 30, 30, 30, 30),
		participant("ben", 90, -1, 30),
	}

	t.Run("missing counts as zero", func(t *testing.T) {
		report := newTestSummarizer(false).Build(context.Background(), results, 2)
		require.Len(t, report.Summary, 2)

		ana := report.Summary[0]
		assert.Equal(t, "ana", ana.Participant)
		require.Len(t, ana.Tasks, 8)
		assert.Equal(t, "01:00", ana.Tasks[0].Time.String())
		assert.Equal(t, "SI", ana.Tasks[0].Completed)
		assert.Equal(t, "06:00", ana.Total.String())
		assert.Zero(t, ana.MissingDurations)

		ben := report.Summary[1]
		assert.Equal(t, "", ben.Tasks[1].Time.String())
		assert.Equal(t, "02:00", ben.Total.String())
		assert.Equal(t, 6, ben.MissingDurations)

		// Total equals the sum of the rendered per-task times
		var sum int64
		for _, task := range ana.Tasks {
			sum += task.Time.Value
		}
		assert.Equal(t, domain.SecondsOf(sum), ana.Total)

		global := report.Statistics[8]
		assert.Equal(t, "04:00", global.Mean.String())
		assert.Equal(t, "02:00", global.Min.String())
		assert.Equal(t, "06:00", global.Max.String())
		assert.Equal(t, 2, global.Participants)
	})

	t.Run("incomplete participants excluded", func(t *testing.T) {
		report := newTestSummarizer(true).Build(context.Background(), results, 2)

		assert.Equal(t, "06:00", report.Summary[0].Total.String())
		assert.False(t, report.Summary[1].Total.Valid)

		global := report.Statistics[8]
		assert.Equal(t, "06:00", global.Mean.String())
		assert.False(t, global.StdDev.Valid)
		assert.Equal(t, 2, global.Participants, "file count is reported regardless of policy")
	})
}

func TestBuildPercentages(t *testing.T) {
	answers := []struct{ errors, completed string }{
		{"si", "SI"},
		{"SI", "Si"},
		{" Si ", "no"},
		{"NO", ""},
	}

	var results []domain.ParticipantResult
	for i, a := range answers {
		r := participant(string(rune('a'+i)), 60)
		r.Activities[0].Errors = a.errors
		r.Activities[0].Completed = a.completed
		results = append(results, r)
	}

	report := newTestSummarizer(false).Build(context.Background(), results, len(results))

	first := report.Statistics[0]
	assert.Equal(t, domain.PercentageOf(75), first.ErrorRate)
	assert.Equal(t, domain.PercentageOf(50), first.CompletionRate)
}

func TestBuildPercentagesRoundToOneDecimal(t *testing.T) {
	results := []domain.ParticipantResult{participant("a", 60), participant("b", 60), participant("c", 60)}
	results[0].Activities[0].Errors = "SI"

	report := newTestSummarizer(false).Build(context.Background(), results, 3)
	assert.Equal(t, domain.PercentageOf(33.3), report.Statistics[0].ErrorRate)
}

func TestBuildFiltersByRecordedTaskNumber(t *testing.T) {
	r := participant("ana", 60, 120)
	r.Activities[1].Number = 1 // recorded as task 1 on the task 2 row

	report := newTestSummarizer(false).Build(context.Background(), []domain.ParticipantResult{r}, 1)

	assert.Equal(t, 2, report.Statistics[0].Participants)
	assert.Equal(t, "01:30", report.Statistics[0].Mean.String())
	assert.Equal(t, 0, report.Statistics[1].Participants)
	assert.Equal(t, domain.PercentageOf(0), report.Statistics[1].CompletionRate, "no rows recorded as task 2")

	// The summary stays positional
	assert.Equal(t, "02:00", report.Summary[0].Tasks[1].Time.String())
}

func TestBuildIsolatedFailures(t *testing.T) {
	results := []domain.ParticipantResult{
		participant("ana", 60),
		FailureResult("/in/broken.xlsm", stderrors.New("zip: not a valid zip file")),
		participant("ben", 120),
	}

	report := newTestSummarizer(false).Build(context.Background(), results, 3)

	require.Len(t, report.Summary, 2)
	assert.Equal(t, "ana", report.Summary[0].Participant)
	assert.Equal(t, "ben", report.Summary[1].Participant)

	require.Len(t, report.Detail, 17)
	failed := report.Detail[8]
	assert.True(t, failed.Failed)
	assert.Equal(t, FailedActivityLabel, failed.Label)
	assert.Equal(t, "broken", failed.Participant)

	assert.Equal(t, 2, report.Statistics[0].Participants)
	assert.Equal(t, 3, report.Statistics[8].Participants)
	assert.Equal(t, 3, report.FileCount)
}

func TestSummarizerConfigFrom(t *testing.T) {
	cfg := config.Default()
	cfg.Report.MissingDurationPolicy = config.MissingExcluded
	cfg.Report.IgnoreAccents = true

	sc := SummarizerConfigFrom(cfg)
	assert.True(t, sc.ExcludeIncomplete)
	assert.True(t, sc.IgnoreAccents)
	assert.Equal(t, "SI", sc.AffirmativeToken)
	assert.Len(t, sc.Layout.Tasks, 8)
}
