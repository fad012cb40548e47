// Package operations runs the workshop report as a sequence of steps.
//
// A run goes through four steps, always in this order:
//
//   - discovery: list the participant workbooks of the input directory
//   - extraction: read every workbook into activity records
//   - transform: assemble the summary, detail and statistics views
//   - output: write the report workbook under an advisory lock
//
// Each step gets a StepState with status and timing, a tracing span and a
// duration sample. The first failing step stops the run and the remaining
// steps are marked skipped. Under the isolate failure policy an unreadable
// workbook does not fail the extraction step; it becomes a flagged detail
// row instead.
//
// Example usage:
//
//	pipeline, err := operations.NewReportPipeline(cfg, operations.Options{
//		BasePath:  paths.ExecutableDir,
//		Paths:     paths,
//		Logger:    logger,
//		Telemetry: telemetry,
//		Progress:  os.Stdout,
//	})
//	if err != nil {
//		return err
//	}
//	state := operations.NewRunState(traceID, cfg.Input.Dir, cfg.Output.Path)
//	err = pipeline.Run(ctx, state)
package operations
