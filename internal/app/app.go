// Package app implements the application layer for markup.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/markup/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/markup/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
	"go.trai.ch/markup/internal/engine/dispatcher"
	"go.trai.ch/markup/internal/ui/output"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// stdinName labels standard input in reports.
const stdinName = "<stdin>"

// App represents the main application logic.
type App struct {
	dispatcher *dispatcher.Dispatcher
	logger     ports.Logger
	telemetry  ports.Telemetry
	cache      ports.ResponseCache
	watcher    ports.Watcher
	walker     *fs.Walker
	config     *domain.Config

	stdin          io.Reader
	stdout         io.Writer
	debounceWindow time.Duration

	// printMu serializes report output between concurrent watch batches.
	printMu sync.Mutex
}

// New creates a new App instance.
func New(
	d *dispatcher.Dispatcher,
	log ports.Logger,
	telemetry ports.Telemetry,
	cache ports.ResponseCache,
	w ports.Watcher,
	walker *fs.Walker,
	cfg *domain.Config,
) *App {
	return &App{
		dispatcher:     d,
		logger:         log,
		telemetry:      telemetry,
		cache:          cache,
		watcher:        w,
		walker:         walker,
		config:         cfg,
		stdin:          os.Stdin,
		stdout:         os.Stdout,
		debounceWindow: watcher.DefaultDebounceWindow,
	}
}

// WithIO replaces standard input and output.
func (a *App) WithIO(stdin io.Reader, stdout io.Writer) *App {
	a.stdin = stdin
	a.stdout = stdout
	return a
}

// WithDebounceWindow sets the quiet period used by Watch.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounceWindow = d
	return a
}

// ValidateOptions configures ValidateFiles and Watch.
type ValidateOptions struct {
	// Overrides are applied over the configured defaults for every file.
	Overrides []domain.Option
	// JSON prints a machine readable report instead of the human one.
	JSON bool
}

// FileReport is the outcome for one validated input.
type FileReport struct {
	File   string        `json:"file"`
	Valid  bool          `json:"valid"`
	Cached bool          `json:"cached"`
	Errors domain.Result `json:"errors,omitempty"`
}

// ValidateFiles validates the given files concurrently and prints one report per file in input order.
// Directories are expanded to the markup files they contain; "-" reads standard input.
// It returns ErrInvalidMarkup when at least one file is invalid.
func (a *App) ValidateFiles(ctx context.Context, paths []string, opts ValidateOptions) error {
	if len(paths) == 0 {
		paths = []string{fs.StdinPath}
	}

	files, err := a.walker.Expand(paths)
	if err != nil {
		return err
	}

	reports, err := a.validateAll(ctx, files, opts)
	if err != nil {
		return err
	}

	if err := a.print(reports, opts.JSON); err != nil {
		return err
	}
	a.logCacheStats()

	return invalidError(reports)
}

func (a *App) validateAll(ctx context.Context, files []string, opts ValidateOptions) ([]FileReport, error) {
	reports := make([]FileReport, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, file := range files {
		g.Go(func() error {
			report, err := a.validateFile(ctx, file, opts)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (a *App) validateFile(ctx context.Context, file string, opts ValidateOptions) (FileReport, error) {
	name := file
	if file == fs.StdinPath {
		name = stdinName
	}

	fragment, err := a.read(file)
	if err != nil {
		return FileReport{}, err
	}

	ctx, vertex := a.telemetry.Record(ctx, name)
	tracked := &cacheTracker{Vertex: vertex}
	ctx = ports.ContextWithVertex(ctx, tracked)

	result, err := a.dispatcher.Validate(ctx, fragment, opts.Overrides...)
	if err != nil {
		vertex.Complete(err)
		return FileReport{}, zerr.With(err, "file", name)
	}

	if report := a.dispatcher.Report(result); report != "" {
		_, _ = io.WriteString(vertex.Stdout(), report+"\n")
		vertex.Complete(domain.ErrInvalidMarkup)
	} else {
		vertex.Complete(nil)
	}

	return FileReport{
		File:   name,
		Valid:  result.Valid(),
		Cached: tracked.cached.Load(),
		Errors: result,
	}, nil
}

func (a *App) read(file string) (domain.Fragment, error) {
	var (
		data []byte
		err  error
	)
	if file == fs.StdinPath {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(file) //nolint:gosec // paths are user input by design of the CLI
	}
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrInputReadFailed.Error()), "path", file)
	}
	return domain.Fragment(data), nil
}

func (a *App) print(reports []FileReport, asJSON bool) error {
	a.printMu.Lock()
	defer a.printMu.Unlock()

	if asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(reports)
	}

	out := output.New(a.stdout)
	var b strings.Builder
	for _, r := range reports {
		b.WriteString(output.Status(out, r.File, r.Valid, r.Cached))
		b.WriteByte('\n')
		if !r.Valid {
			b.WriteString(indent(domain.Report(r.Errors)))
			b.WriteString("\n\n")
		}
	}
	_, err := io.WriteString(a.stdout, b.String())
	return err
}

func (a *App) logCacheStats() {
	stats := a.cache.Stats()
	if stats.Hits+stats.Misses == 0 {
		return
	}
	a.logger.Info(fmt.Sprintf("response cache: %d hits, %d misses", stats.Hits, stats.Misses))
}

func invalidError(reports []FileReport) error {
	invalid := 0
	for _, r := range reports {
		if !r.Valid {
			invalid++
		}
	}
	if invalid == 0 {
		return nil
	}
	// Wrap rather than With so errors.Is still matches the sentinel.
	return zerr.With(zerr.Wrap(domain.ErrInvalidMarkup, fmt.Sprintf("%d of %d files failed validation", invalid, len(reports))), "invalid_files", invalid)
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

// cacheTracker records whether a backend served the file from cache.
type cacheTracker struct {
	ports.Vertex
	cached atomic.Bool
}

func (c *cacheTracker) Cached() {
	c.cached.Store(true)
	c.Vertex.Cached()
}

// Watch validates every markup file below root, then re-validates files whose content changed
// until ctx is cancelled. Invalid markup is reported but does not stop watching.
func (a *App) Watch(ctx context.Context, root string, opts ValidateOptions) error {
	if err := a.watcher.Start(ctx, root); err != nil {
		return err
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	digests := watcher.NewDigestCache()

	var initial []string
	for path := range a.walker.WalkMarkup(root) {
		if _, err := digests.Changed(path); err == nil {
			initial = append(initial, path)
		}
	}
	a.logger.Info(fmt.Sprintf("watching %s (%d markup files)", root, len(initial)))
	a.revalidate(ctx, initial, opts)

	debouncer := watcher.NewDebouncer(a.debounceWindow, func(paths []string) {
		var changed []string
		for _, p := range paths {
			if ok, err := digests.Changed(p); err == nil && ok {
				changed = append(changed, p)
			}
		}
		a.revalidate(ctx, changed, opts)
	})

	for event := range a.watcher.Events() {
		if !fs.IsMarkup(event.Path) {
			continue
		}
		switch event.Operation {
		case ports.OpRemove, ports.OpRename:
			digests.Forget(event.Path)
		default:
			debouncer.Add(event.Path)
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	debouncer.Flush()
	return nil
}

func (a *App) revalidate(ctx context.Context, paths []string, opts ValidateOptions) {
	if len(paths) == 0 || ctx.Err() != nil {
		return
	}

	reports, err := a.validateAll(ctx, paths, opts)
	if err != nil {
		if ctx.Err() == nil {
			a.logger.Error(err)
		}
		return
	}
	if err := a.print(reports, opts.JSON); err != nil {
		a.logger.Error(err)
	}
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// Catalog also removes the XML catalog and the DTDs downloaded into it.
	Catalog bool
}

// Clean removes the response cache and, optionally, the catalog.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	var errs error

	remove := func(path, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(a.config.CacheDir, "response cache")
	if options.Catalog {
		remove(a.config.Defaults.CatalogPath, "XML catalog")
	}

	return errs
}

// Close flushes telemetry.
func (a *App) Close() error {
	return a.telemetry.Close()
}

