//go:build !unix

package catalog

import "context"

// Lock serializes catalog writers within this process only.
func (m *Manager) Lock(_ context.Context, catalogPath string) (func(), error) {
	mu := m.pathLock(catalogPath)
	mu.Lock()
	return mu.Unlock, nil
}
