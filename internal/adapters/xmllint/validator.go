// Package xmllint implements the local validation backend on top of the xmllint tool.
//
// Missing DTDs are downloaded into the catalog directory and registered with
// xmlcatalog, after which validation is re-run until no new catalog entries are needed.
package xmllint

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
	"go.trai.ch/zerr"
)

// MaxPasses bounds the validate, populate, re-validate loop.
const MaxPasses = 8

// Validator implements ports.Validator using xmllint.
type Validator struct {
	runner  ports.CommandRunner
	catalog ports.CatalogManager
	fetcher ports.ResourceFetcher
	logger  ports.Logger
	tool    string
	tempDir string
}

// NewValidator creates a Validator invoking the given xmllint binary.
func NewValidator(
	runner ports.CommandRunner,
	catalog ports.CatalogManager,
	fetcher ports.ResourceFetcher,
	logger ports.Logger,
	tool string,
) *Validator {
	if tool == "" {
		tool = domain.DefaultXMLLint
	}
	return &Validator{
		runner:  runner,
		catalog: catalog,
		fetcher: fetcher,
		logger:  logger,
		tool:    tool,
	}
}

// WithTempDir sets the directory for the fragment's temp file. Empty means os.TempDir.
func (v *Validator) WithTempDir(dir string) *Validator {
	v.tempDir = dir
	return v
}

// Validate checks the fragment against its DTD.
//
// Catalog setup and registration failures are returned as errors.
// A tool that cannot be started is reported as a line-0 validation error.
// Cancellation is returned as the context error.
func (v *Validator) Validate(ctx context.Context, fragment domain.Fragment, opts domain.Options) (domain.Result, error) {
	if err := v.catalog.Ensure(ctx, opts.CatalogPath); err != nil {
		return nil, err
	}

	tmpName, cleanup, err := v.writeTemp(fragment)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	cmd := v.command(tmpName, opts)

	var out *ports.Output
	for pass := 1; ; pass++ {
		out, err = v.runner.Run(ctx, cmd)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return domain.Result{{Message: fmt.Sprintf("could not run %s: %v", v.tool, err)}}, nil
		}

		added, err := v.populate(ctx, opts.CatalogPath, out.Lines)
		if err != nil {
			return nil, err
		}
		if !added {
			break
		}
		if pass == MaxPasses {
			v.logger.Warn(fmt.Sprintf("catalog still incomplete after %d validation passes, using last result", MaxPasses))
			break
		}
	}

	return extractErrors(fragment, tmpName, out), nil
}

func (v *Validator) command(tmpName string, opts domain.Options) ports.Command {
	mode := "--loaddtd"
	if opts.DTDValidate {
		mode = "--valid"
	}
	return ports.Command{
		Name: v.tool,
		Args: []string{"--nonet", "--noout", mode, tmpName},
		Env: []string{
			"XML_CATALOG_FILES=" + domain.CatalogFile(opts.CatalogPath),
			"XML_DEBUG_CATALOG=1",
		},
	}
}

func (v *Validator) writeTemp(fragment domain.Fragment) (string, func(), error) {
	f, err := os.CreateTemp(v.tempDir, "markup-*.xhtml")
	if err != nil {
		return "", nil, zerr.Wrap(err, domain.ErrTempFileFailed.Error())
	}
	name := f.Name()
	cleanup := func() { _ = os.Remove(name) }

	if _, err := f.WriteString(fragment.String()); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, zerr.Wrap(err, domain.ErrTempFileFailed.Error())
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, zerr.Wrap(err, domain.ErrTempFileFailed.Error())
	}
	return name, cleanup, nil
}

// populate stores and registers every resource xmllint looked up that the catalog does not hold yet.
// It reports whether the catalog gained an entry, meaning another pass is needed.
func (v *Validator) populate(ctx context.Context, catalogPath string, lines []string) (bool, error) {
	entries := pendingEntries(catalogPath, parseResolveNotices(lines))
	if len(entries) == 0 {
		return false, nil
	}

	unlock, err := v.catalog.Lock(ctx, catalogPath)
	if err != nil {
		return false, err
	}
	defer unlock()

	added := false
	for _, p := range entries {
		if fileExists(p.entry.LocalPath) {
			// Another process populated it while we waited for the lock.
			added = true
			continue
		}

		data, err := v.fetcher.Fetch(ctx, p.source)
		if err != nil {
			v.logger.Warn(fmt.Sprintf("could not fetch %s: %v", p.source, err))
			continue
		}

		if err := v.catalog.Add(ctx, catalogPath, p.entry); err != nil {
			return false, err
		}

		if err := writeResource(p.entry.LocalPath, data); err != nil {
			return false, zerr.With(zerr.Wrap(err, domain.ErrResourceWriteFailed.Error()), "path", p.entry.LocalPath)
		}
		added = true
	}

	return added, nil
}

// pendingEntry is a catalog entry to create plus the location its content is fetched from.
type pendingEntry struct {
	entry  domain.CatalogEntry
	source string
}

// pendingEntries maps notices to catalog entries whose local copy is missing.
//
// Local system identifiers (file: or no scheme) are siblings of the DTD that referenced them,
// so they are fetched from the directory of the last network identifier seen.
func pendingEntries(catalogPath string, notices []resolveNotice) []pendingEntry {
	var (
		pending     []pendingEntry
		lastNetwork *url.URL
		targets     = make(map[string]struct{})
	)

	for _, n := range notices {
		if n.SystemID == "" {
			continue
		}

		source := n.SystemID
		u, err := url.Parse(n.SystemID)
		switch {
		case err != nil:
			continue
		case u.Scheme == "http" || u.Scheme == "https":
			lastNetwork = u
		case (u.Scheme == "" || u.Scheme == "file") && lastNetwork != nil:
			sibling := *lastNetwork
			sibling.Path = path.Join(path.Dir(lastNetwork.Path), path.Base(filepath.ToSlash(u.Path)))
			sibling.RawQuery = ""
			sibling.Fragment = ""
			source = sibling.String()
		}

		base := path.Base(filepath.ToSlash(u.Path))
		if base == "." || base == "/" {
			continue
		}

		target := filepath.Join(catalogPath, base)
		if _, dup := targets[target]; dup || fileExists(target) {
			continue
		}
		targets[target] = struct{}{}

		pending = append(pending, pendingEntry{
			entry: domain.CatalogEntry{
				PublicID:  n.PublicID,
				SystemID:  n.SystemID,
				LocalPath: target,
			},
			source: source,
		})
	}

	return pending
}

// extractErrors turns the file-addressed diagnostics of the final pass into validation errors.
func extractErrors(fragment domain.Fragment, tmpName string, out *ports.Output) domain.Result {
	var result domain.Result
	for _, line := range out.Lines {
		d, ok := parseDiagnostic(line, tmpName)
		if !ok || isWarning(d.Message) {
			continue
		}
		result = append(result, domain.NewValidationError(fragment, d.Line, d.Message))
	}

	if len(result) == 0 && out.ExitCode != 0 {
		result = domain.Result{{Message: fmt.Sprintf("validator exited with status %d", out.ExitCode)}}
	}
	return result
}

func writeResource(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, target)
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
