package config

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathsFor(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "opt", "workshop")
	paths := PathsFor(base)

	assert.Equal(t, base, paths.ExecutableDir)
	assert.Equal(t, base, paths.InputDir)
	assert.Equal(t, filepath.Join(base, DefaultOutputFile), paths.OutputFile)
	assert.Equal(t, filepath.Join(base, DefaultLogsDir, DefaultLogFile), paths.GetLogPath(DefaultLogFile))
	assert.Equal(t, filepath.Join(base, ConfigFileYAML), paths.ConfigYAML)
	assert.Equal(t, filepath.Join(base, ConfigFileTOML), paths.ConfigTOML)
}

func TestPathsResolve(t *testing.T) {
	base := t.TempDir()
	paths := PathsFor(base)

	assert.Equal(t, filepath.Join(base, "talleres"), paths.Resolve("talleres"))
	abs := filepath.Join(t.TempDir(), "report.xlsx")
	assert.Equal(t, abs, paths.Resolve(abs))
}

func TestLogPathResolution(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	base := t.TempDir()
	PathsFor(base).LogPathResolution(logger)
	assert.Contains(t, buf.String(), `"msg":"Path resolution summary"`)
	assert.Contains(t, buf.String(), `"output":`)
}
