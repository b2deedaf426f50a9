// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/markup/internal/core/domain"
)

// Validator defines the interface implemented by each validation backend.
//
//go:generate go run go.uber.org/mock/mockgen -source=validator.go -destination=mocks/mock_validator.go -package=mocks
type Validator interface {
	// Validate checks the fragment and returns its line-addressed errors.
	//
	// An invalid fragment is not an error: it yields a non-empty Result.
	// A returned error means the backend could not be set up at all and is fatal for the caller.
	Validate(ctx context.Context, fragment domain.Fragment, opts domain.Options) (domain.Result, error)
}
