package operations

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"workshopcli/internal/config"
	"workshopcli/internal/dataprocessing"
	"workshopcli/internal/exporter"
	"workshopcli/internal/files"
	"workshopcli/internal/infrastructure"
	"workshopcli/internal/validation"
)

// Pipeline runs its steps in order. The first failing step stops the run
// and the steps after it are marked skipped.
type Pipeline struct {
	steps  []Step
	tracer *PipelineTracer
	logger *slog.Logger
}

// NewPipeline creates a pipeline over steps
func NewPipeline(tracer *PipelineTracer, logger *slog.Logger, steps ...Step) *Pipeline {
	return &Pipeline{
		steps:  steps,
		tracer: tracer,
		logger: infrastructure.WithComponent(logger, "pipeline"),
	}
}

// Steps returns the pipeline steps in execution order
func (p *Pipeline) Steps() []Step {
	return p.steps
}

// Run executes every step against state. A state without an ID takes the
// trace ID of ctx, generating one when ctx has none.
func (p *Pipeline) Run(ctx context.Context, state *RunState) (err error) {
	if state.ID == "" {
		ctx = infrastructure.EnsureTraceID(ctx)
		state.ID = infrastructure.GetTraceID(ctx)
	} else {
		ctx = infrastructure.WithTraceID(ctx, state.ID)
	}
	ctx, span := p.tracer.TraceRun(ctx, state)
	defer func() {
		state.Finish()
		p.tracer.RecordRunCompletion(span, state, err)
	}()

	for _, step := range p.steps {
		state.registerStep(step)
	}

	p.logger.InfoContext(ctx, "Run started",
		slog.String("input_dir", state.InputDir),
		slog.String("output", state.OutputPath),
		slog.Int("step_count", len(p.steps)))

	for i, step := range p.steps {
		if ctxErr := ctx.Err(); ctxErr != nil {
			p.logger.WarnContext(ctx, "Run cancelled", slog.String("step", step.ID()))
			p.skipFrom(state, i, "run cancelled")
			return NewCancellationError(step.ID(), ctxErr)
		}

		if err := p.executeStep(ctx, state, step); err != nil {
			p.skipFrom(state, i+1, fmt.Sprintf("previous step %s failed", step.ID()))
			return err
		}
	}

	p.logger.InfoContext(ctx, "Run completed",
		slog.Int("files", len(state.Files)),
		slog.Int("failed_files", state.Failed),
		slog.Duration("duration", state.Duration()))
	return nil
}

func (p *Pipeline) executeStep(ctx context.Context, state *RunState, step Step) error {
	stepState := state.GetStep(step.ID())
	stepCtx, span := p.tracer.TraceStep(ctx, state.ID, step)

	p.logger.DebugContext(ctx, "Step started", slog.String("step", step.ID()))
	stepState.Start()
	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)
	p.tracer.RecordStepCompletion(stepCtx, span, step.ID(), duration, err)

	if err != nil {
		wrapped := WrapError(err, step.ID(), "step failed")
		stepState.Fail(wrapped)
		p.logger.ErrorContext(ctx, "Step failed",
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return wrapped
	}

	stepState.Complete()
	p.logger.DebugContext(ctx, "Step completed",
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))
	return nil
}

// skipFrom marks the steps from index i on as skipped
func (p *Pipeline) skipFrom(state *RunState, i int, reason string) {
	for _, step := range p.steps[i:] {
		if stepState := state.GetStep(step.ID()); stepState != nil {
			stepState.Skip(reason)
		}
	}
}

// Options wires the report pipeline to its surroundings
type Options struct {
	// BasePath anchors relative input locations
	BasePath string

	// Paths resolves relative output locations; nil keeps them as given
	Paths *config.Paths

	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry

	// Progress receives the operator progress lines; nil discards them
	Progress io.Writer
}

// NewReportPipeline assembles the discovery, extraction, transform and
// output steps from cfg
func NewReportPipeline(cfg *config.Config, opts Options) (*Pipeline, error) {
	logger := opts.Logger
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	tracer, err := NewPipelineTracer(opts.Telemetry)
	if err != nil {
		return nil, err
	}

	progress := NewProgressReporter(opts.Progress)
	validator := validation.NewFileValidator(logger)
	writerOptions := exporter.WriterOptions{
		ColumnPadding:  cfg.Report.ColumnPadding,
		MaxColumnWidth: cfg.Report.MaxColumnWidth,
	}

	return NewPipeline(tracer, logger,
		NewDiscoveryStep(
			files.NewDiscovery(opts.BasePath, logger),
			validator,
			cfg.Input.Extensions,
			progress,
			tracer,
		),
		NewExtractionStep(
			dataprocessing.NewExtractor(cfg.Layout, logger),
			validator,
			cfg.Input.Extensions,
			cfg.Report.FailurePolicy == config.FailureIsolate,
			progress,
			tracer,
			logger,
		),
		NewTransformStep(
			dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfigFrom(cfg)),
		),
		NewOutputStep(
			exporter.NewWorkbookWriter(cfg.Layout, writerOptions, logger),
			files.NewManager(opts.Paths, logger),
			validator,
			progress,
			logger,
		),
	), nil
}
