package dataprocessing

import (
	"context"
	"log/slog"
	"math"

	"workshopcli/internal/config"
	"workshopcli/internal/infrastructure"
	"workshopcli/pkg/contracts/domain"
)

// GlobalStatisticLabel labels the statistics row computed over participant
// totals.
const GlobalStatisticLabel = "TOTAL (all tasks)"

// SummarizerConfig holds the aggregation policies.
type SummarizerConfig struct {
	Layout           config.Layout
	AffirmativeToken string
	IgnoreAccents    bool

	// ExcludeIncomplete blanks the total of a participant with any missing
	// task duration and leaves it out of the global statistics. When false
	// missing durations count as zero.
	ExcludeIncomplete bool
}

// SummarizerConfigFrom derives the aggregation policies from the
// application configuration.
func SummarizerConfigFrom(cfg *config.Config) SummarizerConfig {
	return SummarizerConfig{
		Layout:            cfg.Layout,
		AffirmativeToken:  cfg.Report.AffirmativeToken,
		IgnoreAccents:     cfg.Report.IgnoreAccents,
		ExcludeIncomplete: cfg.Report.MissingDurationPolicy == config.MissingExcluded,
	}
}

// Summarizer turns extracted workbooks into the detail, summary and
// statistics views.
type Summarizer struct {
	cfg         SummarizerConfig
	affirmative *AffirmativeMatcher
	logger      *slog.Logger
}

// NewSummarizer creates a summarizer.
func NewSummarizer(logger *slog.Logger, cfg SummarizerConfig) *Summarizer {
	return &Summarizer{
		cfg:         cfg,
		affirmative: NewAffirmativeMatcher(cfg.AffirmativeToken, cfg.IgnoreAccents),
		logger:      infrastructure.WithComponent(logger, "summarizer"),
	}
}

// Build assembles the report. fileCount is the number of input files found,
// which the global statistics row reports as its participant count whether
// or not every file could be read.
func (s *Summarizer) Build(ctx context.Context, results []domain.ParticipantResult, fileCount int) *domain.WorkshopReport {
	report := &domain.WorkshopReport{
		Summary:    make([]domain.ParticipantSummary, 0, len(results)),
		Detail:     make([]domain.ActivityRecord, 0, len(results)*len(s.cfg.Layout.Tasks)),
		Statistics: make([]domain.ActivityStatistic, 0, len(s.cfg.Layout.Tasks)+1),
		FileCount:  fileCount,
	}

	for _, result := range results {
		report.Detail = append(report.Detail, result.Activities...)
		if result.Err != nil {
			continue
		}
		report.Summary = append(report.Summary, s.summarize(result))
	}

	for _, task := range s.cfg.Layout.Tasks {
		report.Statistics = append(report.Statistics, s.taskStatistic(task, report.Detail))
	}
	report.Statistics = append(report.Statistics, s.globalStatistic(report.Summary, fileCount))

	s.logger.DebugContext(ctx, "Report assembled",
		slog.Int("participants", len(report.Summary)),
		slog.Int("records", len(report.Detail)),
		slog.Int("statistics", len(report.Statistics)))

	return report
}

// summarize builds one summary row. Activities are positional: the i-th
// record belongs to the i-th layout task.
func (s *Summarizer) summarize(result domain.ParticipantResult) domain.ParticipantSummary {
	summary := domain.ParticipantSummary{
		Participant: result.Participant,
		Tasks:       make([]domain.TaskResult, len(s.cfg.Layout.Tasks)),
	}

	var total int64
	for i := range s.cfg.Layout.Tasks {
		if i >= len(result.Activities) {
			summary.MissingDurations++
			continue
		}
		activity := result.Activities[i]
		summary.Tasks[i] = domain.TaskResult{
			Time:      activity.Duration,
			Errors:    activity.Errors,
			Completed: activity.Completed,
		}
		if activity.Duration.Valid {
			total += activity.Duration.Value
		} else {
			summary.MissingDurations++
		}
	}

	if summary.MissingDurations == 0 || !s.cfg.ExcludeIncomplete {
		summary.Total = domain.SecondsOf(total)
	}
	return summary
}

// taskStatistic aggregates the detail rows recorded under the task's number.
func (s *Summarizer) taskStatistic(task config.TaskDescriptor, detail []domain.ActivityRecord) domain.ActivityStatistic {
	var (
		durations []int64
		rows      int
		errored   int
		completed int
	)
	for _, record := range detail {
		if record.Failed || record.Number != task.Number {
			continue
		}
		rows++
		if record.Duration.Valid {
			durations = append(durations, record.Duration.Value)
		}
		if s.affirmative.Match(record.Errors) {
			errored++
		}
		if s.affirmative.Match(record.Completed) {
			completed++
		}
	}

	stat := describe(durations)
	stat.Activity = task.Label
	stat.ErrorRate = domain.PercentageOf(rate(errored, rows))
	stat.CompletionRate = domain.PercentageOf(rate(completed, rows))
	stat.Participants = len(durations)
	return stat
}

// globalStatistic aggregates participant totals. Blank totals are skipped.
func (s *Summarizer) globalStatistic(summary []domain.ParticipantSummary, fileCount int) domain.ActivityStatistic {
	totals := make([]int64, 0, len(summary))
	for _, row := range summary {
		if row.Total.Valid {
			totals = append(totals, row.Total.Value)
		}
	}

	stat := describe(totals)
	stat.Activity = GlobalStatisticLabel
	stat.Participants = fileCount
	return stat
}

// describe computes mean, min and max for at least one sample and the
// sample standard deviation for at least two. Values truncate to whole
// seconds.
func describe(samples []int64) domain.ActivityStatistic {
	var stat domain.ActivityStatistic
	if len(samples) == 0 {
		return stat
	}

	lo, hi := samples[0], samples[0]
	var sum float64
	for _, v := range samples {
		lo = min(lo, v)
		hi = max(hi, v)
		sum += float64(v)
	}
	mean := sum / float64(len(samples))

	stat.Mean = domain.SecondsOf(int64(math.Trunc(mean)))
	stat.Min = domain.SecondsOf(lo)
	stat.Max = domain.SecondsOf(hi)

	if len(samples) > 1 {
		var squares float64
		for _, v := range samples {
			d := float64(v) - mean
			squares += d * d
		}
		std := math.Sqrt(squares / float64(len(samples)-1))
		stat.StdDev = domain.SecondsOf(int64(math.Trunc(std)))
	}
	return stat
}

// rate returns part/whole as a percentage rounded to one decimal, or 0 when
// whole is 0.
func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
