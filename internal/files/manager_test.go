package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshopcli/internal/config"
	"workshopcli/internal/errors"
)

func TestEnsureParentDir(t *testing.T) {
	base := t.TempDir()
	manager := NewManager(config.PathsFor(base), nil)

	require.NoError(t, manager.EnsureParentDir(filepath.Join("out", "nested", "report.xlsx")))
	assert.DirExists(t, filepath.Join(base, "out", "nested"))
}

func TestAcquireOutputLock(t *testing.T) {
	base := t.TempDir()
	manager := NewManager(config.PathsFor(base), nil)
	output := filepath.Join(base, "reports", "workshop_results.xlsx")

	lock, err := manager.AcquireOutputLock(output)
	require.NoError(t, err)
	assert.Equal(t, output+".lock", lock.Path())
	assert.FileExists(t, lock.Path())

	t.Run("second run conflicts", func(t *testing.T) {
		_, err := manager.AcquireOutputLock(output)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeConflict))
	})

	require.NoError(t, lock.Release())
	_, statErr := os.Stat(output + ".lock")
	assert.True(t, os.IsNotExist(statErr), "lock file removed on release")

	again, err := manager.AcquireOutputLock(output)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestManagerWithoutPaths(t *testing.T) {
	output := filepath.Join(t.TempDir(), "report.xlsx")
	lock, err := NewManager(nil, nil).AcquireOutputLock(output)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}
