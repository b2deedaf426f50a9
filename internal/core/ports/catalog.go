package ports

import (
	"context"

	"go.trai.ch/markup/internal/core/domain"
)

// CatalogManager defines the interface for maintaining the local XML catalog.
//
//go:generate go run go.uber.org/mock/mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type CatalogManager interface {
	// Ensure creates the catalog directory and catalog file if they do not exist.
	Ensure(ctx context.Context, catalogPath string) error

	// Add registers the entry in the catalog file of catalogPath.
	Add(ctx context.Context, catalogPath string, entry domain.CatalogEntry) error

	// Lock acquires exclusive access to the catalog across goroutines and processes.
	// The returned function releases the lock.
	Lock(ctx context.Context, catalogPath string) (unlock func(), err error)
}

// ResourceFetcher defines the interface for retrieving DTD resources by system identifier.
type ResourceFetcher interface {
	// Fetch returns the content of the resource identified by systemID,
	// which is either a network URL or a local file reference.
	Fetch(ctx context.Context, systemID string) ([]byte, error)
}
