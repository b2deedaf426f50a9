package ports

import "go.trai.ch/markup/internal/core/domain"

// ResponseCache defines the interface for the content-addressed validator response cache.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ResponseCache interface {
	// Get returns the cached response for key.
	// Missing, unreadable or corrupt entries are reported as a miss, never as an error.
	Get(key string) (*domain.RawResponse, bool)

	// Put stores the response under key. Failures must not fail the validation itself.
	Put(key string, resp *domain.RawResponse) error

	// Stats returns the hit and miss counters.
	Stats() domain.CacheStats
}
