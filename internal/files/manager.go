package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"workshopcli/internal/config"
	"workshopcli/internal/errors"
	"workshopcli/internal/infrastructure"
)

// lockSuffix is appended to the output path to name its lock file
const lockSuffix = ".lock"

// Manager provides file management operations
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	return &Manager{paths: paths, logger: infrastructure.WithComponent(logger, "file_manager")}
}

// EnsureParentDir creates the directory that will hold path
func (m *Manager) EnsureParentDir(path string) error {
	dir := filepath.Dir(m.resolvePath(path))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewStorageError("failed to create directory", err).WithContext("dir", dir)
	}
	return nil
}

// OutputLock is an advisory lock guarding one output file
type OutputLock struct {
	lock   *flock.Flock
	logger *slog.Logger
}

// Path returns the lock file path
func (l *OutputLock) Path() string {
	return l.lock.Path()
}

// Release unlocks and removes the lock file
func (l *OutputLock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if err := os.Remove(l.lock.Path()); err != nil && !os.IsNotExist(err) {
		l.logger.Warn("Failed to remove lock file",
			slog.String("path", l.lock.Path()),
			slog.String("error", err.Error()))
	}
	return nil
}

// AcquireOutputLock takes the advisory lock next to the output file. A lock
// already held by another run is a conflict error.
func (m *Manager) AcquireOutputLock(outputPath string) (*OutputLock, error) {
	if err := m.EnsureParentDir(outputPath); err != nil {
		return nil, err
	}

	lockPath := m.resolvePath(outputPath) + lockSuffix
	lock := flock.New(lockPath)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, errors.NewStorageError("failed to acquire output lock", err).WithContext("lock", lockPath)
	}
	if !ok {
		return nil, errors.NewConflictError("another run is writing this report", nil).WithContext("lock", lockPath)
	}

	m.logger.Debug("Output lock acquired", slog.String("lock", lockPath))
	return &OutputLock{lock: lock, logger: m.logger}, nil
}

// resolvePath resolves relative paths against the executable directory
func (m *Manager) resolvePath(path string) string {
	if m.paths == nil {
		return path
	}
	return m.paths.Resolve(path)
}
