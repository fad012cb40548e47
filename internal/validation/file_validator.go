package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"workshopcli/internal/errors"
	"workshopcli/internal/infrastructure"
)

// writeProbe is the scratch file used to check an output directory
const writeProbe = ".write_test"

// FileValidator checks the input and output locations of a report run
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	return &FileValidator{
		logger: infrastructure.WithComponent(logger, "file_validator"),
	}
}

// ValidateInputDirectory validates that the input directory exists
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return errors.NewAppError(errors.ErrTypeNotFound, "input directory does not exist", err).
			WithContext("directory", dir)
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("failed to stat input directory", err).
			WithContext("directory", dir)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return errors.NewValidationError("input path is not a directory", nil).
			WithContext("directory", dir)
	}

	v.logger.Debug("Input directory validated", slog.String("directory", dir))
	return nil
}

// ValidateOutputDirectory ensures the directory of outputPath exists and is
// writable
func (v *FileValidator) ValidateOutputDirectory(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("failed to create output directory", err).
			WithContext("directory", dir)
	}

	probe := filepath.Join(dir, writeProbe)
	file, err := os.Create(probe)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("output directory is not writable", err).
			WithContext("directory", dir)
	}
	file.Close()
	os.Remove(probe)

	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		return errors.NewValidationError("output path is a directory", nil).
			WithContext("path", outputPath)
	}

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateWorkbook checks that path is a readable workbook with one of the
// accepted extensions
func (v *FileValidator) ValidateWorkbook(path string, extensions []string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.NewAppError(errors.ErrTypeNotFound, "workbook not found", err).
			WithContext("file", path)
	}
	if info.IsDir() {
		return errors.NewValidationError("workbook path is a directory", nil).
			WithContext("file", path)
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Skipping temporary office file", slog.String("file", path))
		return errors.NewValidationError("temporary office file", nil).
			WithContext("file", path)
	}

	ext := filepath.Ext(base)
	for _, want := range extensions {
		if strings.EqualFold(ext, "."+strings.TrimPrefix(want, ".")) {
			return nil
		}
	}
	return errors.NewValidationError("unsupported workbook extension", nil).
		WithContext("file", path).
		WithContext("extension", ext)
}
