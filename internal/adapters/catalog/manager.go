// Package catalog maintains the local XML catalog that maps DTD identifiers to downloaded copies.
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
	"go.trai.ch/zerr"
)

// Manager implements ports.CatalogManager on top of the xmlcatalog tool.
type Manager struct {
	runner ports.CommandRunner
	tool   string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a Manager invoking the given xmlcatalog binary.
func NewManager(runner ports.CommandRunner, tool string) *Manager {
	if tool == "" {
		tool = domain.DefaultXMLCatalog
	}
	return &Manager{
		runner: runner,
		tool:   tool,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Ensure creates the catalog directory and an empty catalog file.
func (m *Manager) Ensure(ctx context.Context, catalogPath string) error {
	if err := os.MkdirAll(catalogPath, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCatalogSetup.Error()), "catalog", catalogPath)
	}

	file := domain.CatalogFile(catalogPath)
	if _, err := os.Stat(file); err == nil {
		return nil
	}

	if err := m.run(ctx, "--noout", "--create", file); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCatalogSetup.Error()), "catalog", catalogPath)
	}
	return nil
}

// Add registers the public and system identifiers of entry, both pointing at its local copy.
func (m *Manager) Add(ctx context.Context, catalogPath string, entry domain.CatalogEntry) error {
	file := domain.CatalogFile(catalogPath)
	target := fileURI(entry.LocalPath)

	if entry.PublicID != "" {
		if err := m.run(ctx, "--noout", "--add", "public", entry.PublicID, target, file); err != nil {
			return wrapRegister(err, entry)
		}
	}
	if entry.SystemID != "" {
		if err := m.run(ctx, "--noout", "--add", "system", entry.SystemID, target, file); err != nil {
			return wrapRegister(err, entry)
		}
	}
	return nil
}

func wrapRegister(err error, entry domain.CatalogEntry) error {
	err = zerr.Wrap(err, domain.ErrCatalogRegister.Error())
	err = zerr.With(err, "public_id", entry.PublicID)
	return zerr.With(err, "system_id", entry.SystemID)
}

func (m *Manager) run(ctx context.Context, args ...string) error {
	out, err := m.runner.Run(ctx, ports.Command{Name: m.tool, Args: args})
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		failed := zerr.With(domain.ErrCommandFailed, "command", m.tool)
		failed = zerr.With(failed, "exit_code", out.ExitCode)
		if len(out.Lines) > 0 {
			failed = zerr.With(failed, "output", strings.Join(out.Lines, "\n"))
		}
		return failed
	}
	return nil
}

// pathLock returns the in-process mutex guarding catalogPath.
func (m *Manager) pathLock(catalogPath string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := filepath.Clean(catalogPath)
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	return l
}

func fileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "file://" + filepath.ToSlash(path)
}
