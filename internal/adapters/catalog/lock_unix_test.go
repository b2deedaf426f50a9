//go:build unix

package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/markup/internal/adapters/catalog"
	"go.trai.ch/markup/internal/core/domain"
	"golang.org/x/sys/unix"
)

// holdForeignLock takes the catalog flock through a separate file description,
// the way another test process would.
func holdForeignLock(t *testing.T, catalogPath string) func() {
	t.Helper()

	//nolint:gosec // Test lock file
	f, err := os.OpenFile(filepath.Join(catalogPath, domain.CatalogLockName), os.O_CREATE|os.O_RDWR, domain.PrivateFilePerm)
	require.NoError(t, err)
	require.NoError(t, unix.Flock(int(f.Fd()), unix.LOCK_EX))

	return func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
	}
}

func TestManager_Lock_WaitsForOtherProcess(t *testing.T) {
	catalogPath := t.TempDir()
	release := holdForeignLock(t, catalogPath)

	acquired := make(chan struct{})
	go func() {
		unlock, err := catalog.NewManager(nil, "").Lock(context.Background(), catalogPath)
		if assert.NoError(t, err) {
			close(acquired)
			unlock()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("lock acquired while held by another process")
	case <-time.After(100 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(5 * time.Second):
		t.Fatal("lock not acquired after release")
	}
}

func TestManager_Lock_HonoursContext(t *testing.T) {
	catalogPath := t.TempDir()
	release := holdForeignLock(t, catalogPath)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := catalog.NewManager(nil, "").Lock(ctx, catalogPath)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCatalogLock.Error())
}
