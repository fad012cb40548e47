package files

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"workshopcli/internal/errors"
	"workshopcli/internal/infrastructure"
)

// officeLockPrefix marks the owner files office suites leave next to open
// documents.
const officeLockPrefix = "~$"

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
	logger   *slog.Logger
}

// NewDiscovery creates a new file discovery instance. Relative directories
// are resolved against basePath.
func NewDiscovery(basePath string, logger *slog.Logger) *Discovery {
	return &Discovery{basePath: basePath, logger: infrastructure.WithComponent(logger, "discovery")}
}

// FindWorkbooks lists the files in dir whose extension is one of extensions,
// compared case-insensitively. Subdirectories, office lock files and the
// excluded paths are skipped. Results are sorted by name.
func (d *Discovery) FindWorkbooks(dir string, extensions []string, exclude ...string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewAppError(errors.ErrTypeNotFound, "input directory not found", err).
				WithContext("dir", fullPath)
		}
		return nil, errors.NewStorageError("failed to read input directory", err).
			WithContext("dir", fullPath)
	}

	skip := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		skip[d.resolve(p)] = true
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		path := filepath.Join(fullPath, name)
		switch {
		case strings.HasPrefix(name, officeLockPrefix):
			d.logger.Debug("Skipping office lock file", slog.String("file", name))
			continue
		case skip[path]:
			d.logger.Debug("Skipping excluded file", slog.String("file", name))
			continue
		case !hasExtension(name, extensions):
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    path,
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	d.logger.Debug("Workbooks discovered",
		slog.String("dir", fullPath),
		slog.Int("count", len(files)))

	return files, nil
}

func (d *Discovery) resolve(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.basePath, path)
	}
	return filepath.Clean(path)
}

func hasExtension(name string, extensions []string) bool {
	ext := filepath.Ext(name)
	for _, want := range extensions {
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
