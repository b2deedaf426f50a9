package wiring_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/markup/internal/adapters/config"
	"go.trai.ch/markup/internal/app"
	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/engine/dispatcher"
	_ "go.trai.ch/markup/internal/wiring"
)

// TestGraftDependencies ensures that the dependency injection graph is valid
// at compile/test time. It checks that every node declaring a dependency
// actually uses it, and every used dependency is declared.
func TestGraftDependencies(t *testing.T) {
	// graft.AssertDepsValid infers the dependency ID from the package name of the
	// type used in Dep[T], so every ports.X dependency is expected to come from a node named "ports".
	t.Skip("Skipping Graft validation due to static analysis limitation with shared ports package")
	graft.AssertDepsValid(t, "../../internal")
}

func TestWiring_ResolvesComponents(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	catalogDir := filepath.Join(t.TempDir(), "catalog")
	t.Setenv(config.EnvCacheDir, cacheDir)
	t.Setenv(config.EnvCatalogPath, catalogDir)
	t.Setenv(config.EnvValidationService, "w3c")

	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)

	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
	assert.Equal(t, cacheDir, components.Config.CacheDir)
	assert.Equal(t, catalogDir, components.Config.Defaults.CatalogPath)
	assert.Equal(t, domain.ServiceW3C, components.Config.Defaults.Service)
	assert.DirExists(t, cacheDir)

	d, _, err := graft.ExecuteFor[*dispatcher.Dispatcher](context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceW3C, d.Defaults().Service)
}
