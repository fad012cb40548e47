package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshopcli/internal/errors"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{".xlsm"}, cfg.Input.Extensions)
	assert.Equal(t, "SI", cfg.Report.AffirmativeToken)
	assert.Equal(t, MissingAsZero, cfg.Report.MissingDurationPolicy)
	assert.Equal(t, FailureAbort, cfg.Report.FailurePolicy)
	assert.Equal(t, 2, cfg.Report.ColumnPadding)
	assert.Equal(t, float64(50), cfg.Report.MaxColumnWidth)
	assert.Equal(t, "file", cfg.Logging.Output)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
	assert.Len(t, cfg.Layout.Tasks, 8)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        func(t *testing.T) string
		env         map[string]string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "yaml file overrides defaults",
			file: func(t *testing.T) string {
				return writeConfigFile(t, "config.yaml", `
input:
  dir: workbooks
  extensions: [".xlsm", ".xlsx"]
report:
  failure_policy: isolate
  affirmative_token: "Sí"
logging:
  level: debug
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "workbooks", cfg.Input.Dir)
				assert.Equal(t, []string{".xlsm", ".xlsx"}, cfg.Input.Extensions)
				assert.Equal(t, FailureIsolate, cfg.Report.FailurePolicy)
				assert.Equal(t, "Sí", cfg.Report.AffirmativeToken)
				assert.Equal(t, "debug", cfg.Logging.Level)
				// untouched sections keep their defaults
				assert.Equal(t, MissingAsZero, cfg.Report.MissingDurationPolicy)
				assert.Len(t, cfg.Layout.Tasks, 8)
			},
		},
		{
			name: "toml file overrides defaults",
			file: func(t *testing.T) string {
				return writeConfigFile(t, "config.toml", `
[report]
missing_duration_policy = "exclude"
max_column_width = 40.0

[output]
path = "out/report.xlsx"
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, MissingExcluded, cfg.Report.MissingDurationPolicy)
				assert.Equal(t, float64(40), cfg.Report.MaxColumnWidth)
				assert.Equal(t, "out/report.xlsx", cfg.Output.Path)
			},
		},
		{
			name: "environment takes precedence over file",
			file: func(t *testing.T) string {
				return writeConfigFile(t, "config.yaml", "logging:\n  level: warn\n")
			},
			env: map[string]string{
				"WORKSHOP_LOGGING_LEVEL":         "error",
				"WORKSHOP_INPUT_EXTENSIONS":      ".xlsx",
				"WORKSHOP_REPORT_IGNORE_ACCENTS": "true",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "error", cfg.Logging.Level)
				assert.Equal(t, []string{".xlsx"}, cfg.Input.Extensions)
				assert.True(t, cfg.Report.IgnoreAccents)
			},
		},
		{
			name: "layout replaced from file",
			file: func(t *testing.T) string {
				return writeConfigFile(t, "config.yaml", `
layout:
  sheet: Data
  identity_cell: B2
  columns: {id: A, description: B, start: C, end: D, duration: E, errors: F, completed: G, notes: H}
  tasks:
    - {number: 1, label: "Login", row: 5}
    - {number: 2, label: "Logout", row: 6}
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "Data", cfg.Layout.Sheet)
				assert.Equal(t, "B2", cfg.Layout.IdentityCell)
				require.Len(t, cfg.Layout.Tasks, 2)
				assert.Equal(t, TaskDescriptor{Number: 2, Label: "Logout", Row: 6}, cfg.Layout.Tasks[1])
			},
		},
		{
			name: "invalid policy rejected",
			file: func(t *testing.T) string {
				return writeConfigFile(t, "config.yaml", "report:\n  failure_policy: retry\n")
			},
			wantErr: true,
		},
		{
			name: "unsupported format rejected",
			file: func(t *testing.T) string {
				return writeConfigFile(t, "config.json", "{}")
			},
			wantErr: true,
		},
		{
			name: "invalid env level rejected",
			file: func(t *testing.T) string {
				return writeConfigFile(t, "config.yaml", "")
			},
			env:     map[string]string{"WORKSHOP_LOGGING_LEVEL": "loud"},
			wantErr: true,
		},
		{
			name: "file trace exporter needs a path",
			file: func(t *testing.T) string {
				return writeConfigFile(t, "config.yaml", "telemetry:\n  trace_exporter: file\n")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(tt.file(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeConfig), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestResolvePaths(t *testing.T) {
	exeDir := t.TempDir()
	paths := PathsFor(exeDir)

	t.Run("defaults come from the executable directory", func(t *testing.T) {
		cfg := Default()
		cfg.ResolvePaths(paths)

		assert.Equal(t, exeDir, cfg.Input.Dir)
		assert.Equal(t, filepath.Join(exeDir, "workshop_results.xlsx"), cfg.Output.Path)
		assert.Equal(t, filepath.Join(exeDir, "logs", "workshop-report.log"), cfg.Logging.FilePath)
		assert.Empty(t, cfg.Telemetry.MetricsFile)
	})

	t.Run("relative paths are anchored, absolute kept", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "report.xlsx")
		cfg := Default()
		cfg.Input.Dir = "workbooks"
		cfg.Output.Path = abs
		cfg.Telemetry.MetricsFile = "metrics/workshop.prom"
		cfg.ResolvePaths(paths)

		assert.Equal(t, filepath.Join(exeDir, "workbooks"), cfg.Input.Dir)
		assert.Equal(t, abs, cfg.Output.Path)
		assert.Equal(t, filepath.Join(exeDir, "metrics", "workshop.prom"), cfg.Telemetry.MetricsFile)
	})
}

func TestGetPaths(t *testing.T) {
	paths, err := GetPaths()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(paths.ExecutableDir))
	assert.Equal(t, paths.ExecutableDir, paths.InputDir)
	assert.Equal(t, filepath.Join(paths.ExecutableDir, DefaultOutputFile), paths.OutputFile)
	assert.Equal(t, filepath.Join(paths.LogsDir, "x.log"), paths.GetLogPath("x.log"))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "absent.txt")))
}
