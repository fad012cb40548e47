package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ExecutableDir string
	InputDir      string
	OutputFile    string
	LogsDir       string

	// Config files
	ConfigYAML string
	ConfigTOML string
}

// GetPaths returns the application paths relative to the executable location
// All paths are ALWAYS relative to the executable directory, never the current working directory
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return PathsFor(filepath.Dir(exe)), nil
}

// PathsFor lays out the application paths under exeDir:
//
//	exeDir/
//	  ├── *.xlsm                  (participant workbooks)
//	  ├── workshop_results.xlsx   (consolidated report)
//	  ├── config.yaml | config.toml
//	  └── logs/
func PathsFor(exeDir string) *Paths {
	return &Paths{
		ExecutableDir: exeDir,
		InputDir:      exeDir,
		OutputFile:    filepath.Join(exeDir, DefaultOutputFile),
		LogsDir:       filepath.Join(exeDir, DefaultLogsDir),
		ConfigYAML:    filepath.Join(exeDir, ConfigFileYAML),
		ConfigTOML:    filepath.Join(exeDir, ConfigFileTOML),
	}
}

// Resolve anchors a relative path at the executable directory.
func (p *Paths) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.ExecutableDir, path)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("input", p.InputDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("files",
			slog.String("output", p.OutputFile),
			slog.String("config_yaml", p.ConfigYAML),
			slog.String("config_toml", p.ConfigTOML),
		))
}
