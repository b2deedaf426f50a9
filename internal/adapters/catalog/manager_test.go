package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/markup/internal/adapters/catalog"
	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
	"go.trai.ch/markup/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestManager_Ensure_CreatesCatalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	catalogPath := filepath.Join(t.TempDir(), ".xml-catalog")
	file := domain.CatalogFile(catalogPath)

	runner.EXPECT().
		Run(gomock.Any(), ports.Command{Name: "xmlcatalog", Args: []string{"--noout", "--create", file}}).
		Return(&ports.Output{}, nil)

	mgr := catalog.NewManager(runner, "xmlcatalog")
	require.NoError(t, mgr.Ensure(context.Background(), catalogPath))

	info, err := os.Stat(catalogPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestManager_Ensure_ExistingCatalogIsReused(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	catalogPath := t.TempDir()
	require.NoError(t, os.WriteFile(domain.CatalogFile(catalogPath), []byte("<catalog/>"), domain.PrivateFilePerm))

	mgr := catalog.NewManager(runner, "")
	require.NoError(t, mgr.Ensure(context.Background(), catalogPath))
}

func TestManager_Ensure_Failures(t *testing.T) {
	t.Run("tool exits non-zero", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		runner := mocks.NewMockCommandRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), gomock.Any()).
			Return(&ports.Output{ExitCode: 1, Lines: []string{"permission denied"}}, nil)

		err := catalog.NewManager(runner, "xmlcatalog").Ensure(context.Background(), t.TempDir())
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrCatalogSetup.Error())
	})

	t.Run("tool missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		runner := mocks.NewMockCommandRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, domain.ErrCommandStartFailed)

		err := catalog.NewManager(runner, "xmlcatalog").Ensure(context.Background(), t.TempDir())
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrCatalogSetup.Error())
		assert.ErrorContains(t, err, domain.ErrCommandStartFailed.Error())
	})

	t.Run("directory cannot be created", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		runner := mocks.NewMockCommandRunner(ctrl)

		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, domain.PrivateFilePerm))

		err := catalog.NewManager(runner, "xmlcatalog").Ensure(context.Background(), filepath.Join(blocker, "catalog"))
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrCatalogSetup.Error())
	})
}

func TestManager_Add(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	catalogPath := t.TempDir()
	file := domain.CatalogFile(catalogPath)
	local := filepath.Join(catalogPath, "xhtml1-strict.dtd")
	entry := domain.CatalogEntry{
		PublicID:  "-//W3C//DTD XHTML 1.0 Strict//EN",
		SystemID:  "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd",
		LocalPath: local,
	}

	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), ports.Command{
			Name: "xmlcatalog",
			Args: []string{"--noout", "--add", "public", entry.PublicID, "file://" + local, file},
		}).Return(&ports.Output{}, nil),
		runner.EXPECT().Run(gomock.Any(), ports.Command{
			Name: "xmlcatalog",
			Args: []string{"--noout", "--add", "system", entry.SystemID, "file://" + local, file},
		}).Return(&ports.Output{}, nil),
	)

	require.NoError(t, catalog.NewManager(runner, "xmlcatalog").Add(context.Background(), catalogPath, entry))
}

func TestManager_Add_SystemOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	catalogPath := t.TempDir()
	entry := domain.CatalogEntry{
		SystemID:  "http://www.w3.org/TR/xhtml1/DTD/xhtml-lat1.ent",
		LocalPath: filepath.Join(catalogPath, "xhtml-lat1.ent"),
	}

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command) (*ports.Output, error) {
			assert.Equal(t, "system", cmd.Args[2])
			return &ports.Output{}, nil
		})

	require.NoError(t, catalog.NewManager(runner, "xmlcatalog").Add(context.Background(), catalogPath, entry))
}

func TestManager_Add_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(&ports.Output{ExitCode: 2}, nil)

	err := catalog.NewManager(runner, "xmlcatalog").Add(context.Background(), t.TempDir(), domain.CatalogEntry{
		PublicID: "-//W3C//DTD XHTML 1.0 Strict//EN",
		SystemID: "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd",
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCatalogRegister.Error())
}

func TestManager_Lock_SerializesWriters(t *testing.T) {
	mgr := catalog.NewManager(nil, "xmlcatalog")
	catalogPath := t.TempDir()

	var inside atomic.Int32
	var maxInside atomic.Int32

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := mgr.Lock(context.Background(), catalogPath)
			if !assert.NoError(t, err) {
				return
			}
			n := inside.Add(1)
			if n > maxInside.Load() {
				maxInside.Store(n)
			}
			time.Sleep(5 * time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
}
