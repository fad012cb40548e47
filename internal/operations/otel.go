package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"workshopcli/internal/infrastructure"
)

// PipelineTracer provides OpenTelemetry instrumentation for report runs
type PipelineTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewPipelineTracer creates a pipeline tracer from the run telemetry. A nil
// telemetry records nothing.
func NewPipelineTracer(telemetry *infrastructure.Telemetry) (*PipelineTracer, error) {
	var (
		tracer trace.Tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.ServiceName)
		meter  metric.Meter = metricnoop.NewMeterProvider().Meter(infrastructure.MeterName)
	)
	if telemetry != nil {
		tracer = telemetry.Tracer
		meter = telemetry.Meter
	}

	metrics, err := infrastructure.CreatePipelineMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	return &PipelineTracer{tracer: tracer, metrics: metrics}, nil
}

// TraceRun creates the root span of a run
func (pt *PipelineTracer) TraceRun(ctx context.Context, state *RunState) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", state.ID),
			attribute.String("run.input_dir", state.InputDir),
			attribute.String("run.output", state.OutputPath),
		),
	)
}

// TraceStep creates a span for one step
func (pt *PipelineTracer) TraceStep(ctx context.Context, runID string, step Step) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, fmt.Sprintf("pipeline.step.%s", step.ID()),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		),
	)
}

// RecordStepCompletion ends a step span and records its duration
func (pt *PipelineTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	status := string(StepStatusCompleted)
	if err != nil {
		status = string(StepStatusFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(
		attribute.String("step.status", status),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)
	span.End()

	pt.metrics.StepDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("step", stepID),
			attribute.String("status", status),
		),
	)
}

// RecordRunCompletion ends the root span
func (pt *PipelineTracer) RecordRunCompletion(span trace.Span, state *RunState, err error) {
	span.SetAttributes(
		attribute.Int("run.files", len(state.Files)),
		attribute.Int("run.failed_files", state.Failed),
		attribute.Float64("run.duration_seconds", state.Duration().Seconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordFilesDiscovered counts the workbooks found by discovery
func (pt *PipelineTracer) RecordFilesDiscovered(ctx context.Context, n int) {
	pt.metrics.FilesDiscovered.Add(ctx, int64(n))
}

// RecordWorkbookRead counts one workbook read and its activities
func (pt *PipelineTracer) RecordWorkbookRead(ctx context.Context, status string, activities int) {
	pt.metrics.WorkbooksRead.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
	if activities > 0 {
		pt.metrics.ActivitiesExtracted.Add(ctx, int64(activities))
	}
}
