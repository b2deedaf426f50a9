package ports

import "go.trai.ch/markup/internal/core/domain"

// ConfigLoader defines the interface for loading the process-wide configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the configuration for the given working directory.
	// A missing config file is not an error; defaults and environment overrides apply.
	Load(cwd string) (*domain.Config, error)
}
