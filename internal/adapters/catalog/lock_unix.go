//go:build unix

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

const lockPollInterval = 25 * time.Millisecond

// Lock serializes catalog writers: goroutines through a per-path mutex,
// processes through an advisory flock on the lock file in the catalog directory.
func (m *Manager) Lock(ctx context.Context, catalogPath string) (func(), error) {
	mu := m.pathLock(catalogPath)
	mu.Lock()

	if err := os.MkdirAll(catalogPath, domain.DirPerm); err != nil {
		mu.Unlock()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCatalogLock.Error()), "catalog", catalogPath)
	}

	lockPath := filepath.Join(catalogPath, domain.CatalogLockName)
	//nolint:gosec // Path is inside the configured catalog directory
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, domain.PrivateFilePerm)
	if err != nil {
		mu.Unlock()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCatalogLock.Error()), "lock", lockPath)
	}

	if err := flock(ctx, f); err != nil {
		_ = f.Close()
		mu.Unlock()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCatalogLock.Error()), "lock", lockPath)
	}

	return func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
		mu.Unlock()
	}, nil
}

// flock polls a non-blocking exclusive lock so that waiting honours ctx.
func flock(ctx context.Context, f *os.File) error {
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
