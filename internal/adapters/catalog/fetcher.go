package catalog

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"

	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxResourceSize bounds a single downloaded DTD or entity file.
const maxResourceSize = 8 << 20

// Fetcher implements ports.ResourceFetcher for http(s) and local file identifiers.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a Fetcher using the given client for network resources.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{httpClient: client}
}

// Fetch returns the content of the resource named by systemID.
func (f *Fetcher) Fetch(ctx context.Context, systemID string) ([]byte, error) {
	u, err := url.Parse(systemID)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrResourceFetchFailed.Error()), "system_id", systemID)
	}

	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, systemID)
	case "file":
		return readLocal(u.Path, systemID)
	case "":
		return readLocal(systemID, systemID)
	default:
		return nil, zerr.With(zerr.With(domain.ErrResourceFetchFailed, "system_id", systemID), "scheme", u.Scheme)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, systemID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, systemID, http.NoBody)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrResourceFetchFailed.Error()), "system_id", systemID)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrResourceFetchFailed.Error()), "system_id", systemID)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		statusErr := zerr.With(domain.ErrResourceFetchFailed, "status_code", resp.StatusCode)
		return nil, zerr.With(statusErr, "system_id", systemID)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResourceSize))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrResourceFetchFailed.Error()), "system_id", systemID)
	}
	return body, nil
}

func readLocal(path, systemID string) ([]byte, error) {
	//nolint:gosec // Local DTD references come from the validated document
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrResourceFetchFailed.Error()), "system_id", systemID)
	}
	return data, nil
}
