package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/markup/internal/adapters/fs"
	"go.trai.ch/markup/internal/app"
	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
	"go.trai.ch/markup/internal/core/ports/mocks"
	"go.trai.ch/markup/internal/engine/dispatcher"
	"go.uber.org/mock/gomock"
)

type harness struct {
	app    *app.App
	local  *mocks.MockValidator
	remote *mocks.MockValidator
	cache  *mocks.MockResponseCache
	logger *mocks.MockLogger
	stdout *syncBuffer
	config *domain.Config
}

// syncBuffer guards a bytes.Buffer for output written from watch batches.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fakeWatcher replays events pushed by the test.
type fakeWatcher struct {
	events chan ports.WatchEvent
	root   string
}

func (w *fakeWatcher) Start(_ context.Context, root string) error {
	w.root = root
	return nil
}

func (w *fakeWatcher) Stop() error { return nil }

func (w *fakeWatcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range w.events {
			if !yield(ev) {
				return
			}
		}
	}
}

func newHarness(t *testing.T, w ports.Watcher, stdin io.Reader) *harness {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	h := &harness{
		local:  mocks.NewMockValidator(ctrl),
		remote: mocks.NewMockValidator(ctrl),
		cache:  mocks.NewMockResponseCache(ctrl),
		logger: mocks.NewMockLogger(ctrl),
		stdout: &syncBuffer{},
		config: domain.DefaultConfig(),
	}
	h.config.CacheDir = filepath.Join(t.TempDir(), "cache")
	h.config.Defaults.CatalogPath = filepath.Join(t.TempDir(), "catalog")

	telemetry := mocks.NewMockTelemetry(ctrl)
	telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			v := mocks.NewMockVertex(ctrl)
			v.EXPECT().Stdout().Return(io.Discard).AnyTimes()
			v.EXPECT().Complete(gomock.Any()).AnyTimes()
			v.EXPECT().Cached().AnyTimes()
			return ports.ContextWithVertex(ctx, v), v
		}).AnyTimes()
	h.cache.EXPECT().Stats().Return(domain.CacheStats{}).AnyTimes()

	if w == nil {
		w = &fakeWatcher{events: make(chan ports.WatchEvent)}
	}

	d := dispatcher.New(h.config.Defaults, h.local, h.remote, nil)
	h.app = app.New(d, h.logger, telemetry, h.cache, w, fs.NewWalker(), h.config).WithIO(stdin, h.stdout)
	return h
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func byContent(invalid string) func(context.Context, domain.Fragment, domain.Options) (domain.Result, error) {
	return func(_ context.Context, f domain.Fragment, _ domain.Options) (domain.Result, error) {
		if strings.Contains(f.String(), invalid) {
			return domain.Result{domain.NewValidationError(f, 1, "Element foo is not declared")}, nil
		}
		return nil, nil
	}
}

func TestApp_ValidateFiles(t *testing.T) {
	h := newHarness(t, nil, nil)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.html")
	bad := filepath.Join(dir, "bad.html")
	writeFile(t, good, "<p/>")
	writeFile(t, bad, "<foo>")

	h.local.EXPECT().Validate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(byContent("<foo>")).Times(2)

	err := h.app.ValidateFiles(context.Background(), []string{good, bad}, app.ValidateOptions{})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrInvalidMarkup)
	assert.ErrorContains(t, err, "1 of 2 files failed validation")

	expected := "✓ " + good + "\n" +
		"✗ " + bad + "\n" +
		"  Invalid markup: line 1: Element foo is not declared\n" +
		"  > 1: <foo>\n\n"
	assert.Equal(t, expected, h.stdout.String())
}

func TestApp_ValidateFiles_Directory(t *testing.T) {
	h := newHarness(t, nil, nil)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.xhtml"), "<p/>")
	writeFile(t, filepath.Join(dir, "a.html"), "<p/>")
	writeFile(t, filepath.Join(dir, "style.css"), "p {}")

	h.local.EXPECT().Validate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	require.NoError(t, h.app.ValidateFiles(context.Background(), []string{dir}, app.ValidateOptions{}))
	assert.Equal(t,
		"✓ "+filepath.Join(dir, "a.html")+"\n✓ "+filepath.Join(dir, "b.xhtml")+"\n",
		h.stdout.String())
}

func TestApp_ValidateFiles_Stdin(t *testing.T) {
	h := newHarness(t, nil, strings.NewReader("<p>from stdin</p>"))

	h.local.EXPECT().Validate(gomock.Any(), domain.Fragment("<p>from stdin</p>"), gomock.Any()).Return(nil, nil)

	require.NoError(t, h.app.ValidateFiles(context.Background(), nil, app.ValidateOptions{}))
	assert.Equal(t, "✓ <stdin>\n", h.stdout.String())
}

func TestApp_ValidateFiles_JSON(t *testing.T) {
	h := newHarness(t, nil, nil)
	bad := filepath.Join(t.TempDir(), "bad.html")
	writeFile(t, bad, "<foo>")

	h.remote.EXPECT().Validate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, f domain.Fragment, o domain.Options) (domain.Result, error) {
			vertex, ok := ports.VertexFromContext(ctx)
			require.True(t, ok)
			vertex.Cached()
			return byContent("<foo>")(ctx, f, o)
		})

	err := h.app.ValidateFiles(context.Background(), []string{bad}, app.ValidateOptions{
		Overrides: []domain.Option{domain.WithService(domain.ServiceW3C)},
		JSON:      true,
	})
	require.Error(t, err)

	var reports []app.FileReport
	require.NoError(t, json.Unmarshal([]byte(h.stdout.String()), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, bad, reports[0].File)
	assert.False(t, reports[0].Valid)
	assert.True(t, reports[0].Cached)
	require.Len(t, reports[0].Errors, 1)
	assert.Equal(t, 1, reports[0].Errors[0].Line)
}

func TestApp_ValidateFiles_CachedMarker(t *testing.T) {
	h := newHarness(t, nil, nil)
	page := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, page, "<p/>")

	h.local.EXPECT().Validate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ domain.Fragment, _ domain.Options) (domain.Result, error) {
			vertex, _ := ports.VertexFromContext(ctx)
			vertex.Cached()
			return nil, nil
		})

	require.NoError(t, h.app.ValidateFiles(context.Background(), []string{page}, app.ValidateOptions{}))
	assert.Equal(t, "✓ "+page+" ~cached\n", h.stdout.String())
}

func TestApp_ValidateFiles_BackendFailure(t *testing.T) {
	h := newHarness(t, nil, nil)
	page := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, page, "<p/>")

	h.local.EXPECT().Validate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, domain.ErrCatalogSetup)

	err := h.app.ValidateFiles(context.Background(), []string{page}, app.ValidateOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCatalogSetup.Error())
	assert.Empty(t, h.stdout.String())
}

func TestApp_ValidateFiles_MissingFile(t *testing.T) {
	h := newHarness(t, nil, nil)

	err := h.app.ValidateFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.html")}, app.ValidateOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInputReadFailed.Error())
}

func TestApp_ValidateFiles_LogsCacheStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, nil, nil)
	page := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, page, "<p/>")

	// Replace the silent default expectation.
	cache := mocks.NewMockResponseCache(ctrl)
	cache.EXPECT().Stats().Return(domain.CacheStats{Hits: 3, Misses: 1})
	telemetry := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)
	telemetry.EXPECT().Record(gomock.Any(), page).Return(context.Background(), vertex)
	vertex.EXPECT().Complete(nil)
	h.local.EXPECT().Validate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	h.logger.EXPECT().Info("response cache: 3 hits, 1 misses")

	d := dispatcher.New(h.config.Defaults, h.local, h.remote, nil)
	a := app.New(d, h.logger, telemetry, cache, nil, fs.NewWalker(), h.config).WithIO(nil, h.stdout)
	require.NoError(t, a.ValidateFiles(context.Background(), []string{page}, app.ValidateOptions{}))
}

func TestApp_Watch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		root := t.TempDir()
		page := filepath.Join(root, "page.html")
		notes := filepath.Join(root, "notes.txt")
		writeFile(t, page, "<p>one</p>")
		writeFile(t, notes, "hello")

		w := &fakeWatcher{events: make(chan ports.WatchEvent)}
		h := newHarness(t, w, nil)
		h.app.WithDebounceWindow(50 * time.Millisecond)
		h.logger.EXPECT().Info(gomock.Any()).AnyTimes()

		var fragments []domain.Fragment
		h.local.EXPECT().Validate(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, f domain.Fragment, o domain.Options) (domain.Result, error) {
				fragments = append(fragments, f)
				return byContent("<foo>")(ctx, f, o)
			}).Times(2)

		done := make(chan error, 1)
		go func() {
			done <- h.app.Watch(context.Background(), root, app.ValidateOptions{})
		}()
		synctest.Wait()
		assert.Equal(t, root, w.root)
		assert.Equal(t, "✓ "+page+"\n", h.stdout.String())

		// Saved without changes: skipped.
		w.events <- ports.WatchEvent{Path: page, Operation: ports.OpWrite}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		// Changed twice within the window: validated once.
		writeFile(t, page, "<p>two</p>")
		w.events <- ports.WatchEvent{Path: page, Operation: ports.OpWrite}
		writeFile(t, page, "<foo>")
		w.events <- ports.WatchEvent{Path: page, Operation: ports.OpWrite}
		w.events <- ports.WatchEvent{Path: notes, Operation: ports.OpWrite}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		close(w.events)
		require.NoError(t, <-done)

		assert.Equal(t, []domain.Fragment{"<p>one</p>", "<foo>"}, fragments)
		assert.Contains(t, h.stdout.String(), "✗ "+page+"\n  Invalid markup: line 1: Element foo is not declared")
	})
}

func TestApp_Clean(t *testing.T) {
	h := newHarness(t, nil, nil)
	writeFile(t, filepath.Join(h.config.CacheDir, "entry.json"), "{}")
	writeFile(t, domain.CatalogFile(h.config.Defaults.CatalogPath), "<catalog/>")
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	require.NoError(t, h.app.Clean(context.Background(), app.CleanOptions{}))
	assert.NoDirExists(t, h.config.CacheDir)
	assert.DirExists(t, h.config.Defaults.CatalogPath)

	require.NoError(t, h.app.Clean(context.Background(), app.CleanOptions{Catalog: true}))
	assert.NoDirExists(t, h.config.Defaults.CatalogPath)
}
