package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"workshopcli/internal/config"
)

func TestInitializeTelemetryDisabledTracing(t *testing.T) {
	tel, err := InitializeTelemetry(config.TelemetryConfig{TraceExporter: "none"}, "test", nil)
	require.NoError(t, err)

	assert.Nil(t, tel.TracerProvider)
	require.NotNil(t, tel.Tracer)

	_, span := tel.Tracer.Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestConsoleTracesStayOffStdout(t *testing.T) {
	dir := t.TempDir()
	stdout, err := os.Create(filepath.Join(dir, "stdout"))
	require.NoError(t, err)
	stderr, err := os.Create(filepath.Join(dir, "stderr"))
	require.NoError(t, err)

	origStdout, origStderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = stdout, stderr
	t.Cleanup(func() {
		os.Stdout, os.Stderr = origStdout, origStderr
		stdout.Close()
		stderr.Close()
	})

	tel, err := InitializeTelemetry(config.TelemetryConfig{TraceExporter: "stdout"}, "test", nil)
	require.NoError(t, err)
	_, span := tel.Tracer.Start(context.Background(), "pipeline.run")
	span.End()
	require.NoError(t, tel.Shutdown(context.Background()))

	out, err := os.ReadFile(stdout.Name())
	require.NoError(t, err)
	assert.Empty(t, out)

	traces, err := os.ReadFile(stderr.Name())
	require.NoError(t, err)
	assert.Contains(t, string(traces), "pipeline.run")
}

func TestTelemetryWritesTraceAndMetricsFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := config.TelemetryConfig{
		TraceExporter: "file",
		TraceFile:     filepath.Join(dir, "traces", "run.json"),
		MetricsFile:   filepath.Join(dir, "metrics", "run.prom"),
	}

	tel, err := InitializeTelemetry(cfg, "test", nil)
	require.NoError(t, err)

	metrics, err := CreatePipelineMetrics(tel.Meter)
	require.NoError(t, err)

	ctx, span := tel.Tracer.Start(context.Background(), "pipeline.run")
	metrics.FilesDiscovered.Add(ctx, 3)
	metrics.WorkbooksRead.Add(ctx, 2, metric.WithAttributes(attribute.String("status", "ok")))
	metrics.ActivitiesExtracted.Add(ctx, 16)
	metrics.StepDuration.Record(ctx, 0.25, metric.WithAttributes(attribute.String("step", "extract")))
	span.End()

	require.NoError(t, tel.Shutdown(context.Background()))

	traces, err := os.ReadFile(cfg.TraceFile)
	require.NoError(t, err)
	assert.Contains(t, string(traces), "pipeline.run")

	prom, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	text := string(prom)
	assert.Contains(t, text, "workshop_files_discovered_total 3")
	assert.Contains(t, text, `workshop_workbooks_read_total{status="ok"} 2`)
	assert.Contains(t, text, "workshop_activities_extracted_total 16")
	assert.Contains(t, text, "workshop_step_duration_seconds_count")
}

func TestInitializeTelemetryRejectsUnknownExporter(t *testing.T) {
	_, err := InitializeTelemetry(config.TelemetryConfig{TraceExporter: "jaeger"}, "test", nil)
	assert.Error(t, err)
}
