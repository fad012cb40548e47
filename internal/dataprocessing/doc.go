// Package dataprocessing turns participant workbooks into the workshop
// report views.
//
// # Components
//
//  1. Extractor: reads the participant name and one ActivityRecord per
//     layout task from a workbook
//  2. TimeToSeconds: normalizes clock times, durations and day fractions to
//     whole seconds
//  3. Summarizer: builds the detail, summary and statistics views
//
// # Usage
//
//	extractor := dataprocessing.NewExtractor(cfg.Layout, logger)
//	result, err := extractor.ParseFile(ctx, "participant.xlsm")
//	if err != nil {
//	    return err
//	}
//
//	summarizer := dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfigFrom(cfg))
//	report := summarizer.Build(ctx, []domain.ParticipantResult{*result}, 1)
//
// # Duration cells
//
// Numeric cells are read together with their number format. Elapsed formats
// such as [h]:mm:ss become time.Duration, time-of-day formats become a clock
// time when the value has no whole-day part, and unformatted numbers are
// taken as fractions of a day. Text, booleans and full date-times are
// missing.
//
// # Missing values
//
// A missing duration renders blank and is skipped by the per-task
// statistics. Participant totals count it as zero unless
// SummarizerConfig.ExcludeIncomplete is set, in which case the total is
// blank and the participant is left out of the global row.
package dataprocessing
