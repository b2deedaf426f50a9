// Package config provides the configuration loader for markup.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvValidationService = "MARKUP_VALIDATION_SERVICE"
	EnvCatalogPath       = "MARKUP_CATALOG_PATH"
	EnvValidatorHost     = "MARKUP_VALIDATOR_HOST"
	EnvNoCache           = "MARKUP_NO_CACHE"
	EnvCacheDir          = "MARKUP_CACHE_DIR"
	EnvLogFormat         = "MARKUP_LOG_FORMAT"
)

// Loader implements ports.ConfigLoader using an optional YAML file plus environment overrides.
type Loader struct {
	getenv func(string) string
}

// NewLoader creates a new Loader reading overrides from the process environment.
func NewLoader() *Loader {
	return &Loader{getenv: os.Getenv}
}

// Load resolves the configuration for cwd.
// Precedence, lowest first: built-in defaults, markup.yaml, environment.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	if configPath, found := findConfiguration(cwd); found {
		var file Markupfile
		if err := readAndUnmarshalYAML(configPath, &file); err != nil {
			return nil, err
		}
		if err := applyFile(cfg, &file, filepath.Dir(configPath)); err != nil {
			return nil, zerr.With(err, "file", configPath)
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// findConfiguration walks up from cwd looking for markup.yaml.
func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func readAndUnmarshalYAML(path string, v any) error {
	//nolint:gosec // Path is discovered by walking up from the working directory
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "file", path)
	}

	if err := yaml.Unmarshal(data, v); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "file", path)
	}
	return nil
}

func applyFile(cfg *domain.Config, file *Markupfile, root string) error {
	if file.ValidationService != "" {
		svc, err := domain.ParseService(file.ValidationService)
		if err != nil {
			return err
		}
		cfg.Defaults.Service = svc
	}
	if file.DTDValidate != nil {
		cfg.Defaults.DTDValidate = *file.DTDValidate
	}
	if file.CatalogPath != "" {
		cfg.Defaults.CatalogPath = resolvePath(root, file.CatalogPath)
	}
	if file.ServiceEndpoint != "" {
		cfg.Defaults.ServiceEndpoint = file.ServiceEndpoint
	}
	if file.NoCache != nil {
		cfg.Defaults.NoCache = *file.NoCache
	}
	if file.CacheDir != "" {
		cfg.CacheDir = resolvePath(root, file.CacheDir)
	}
	if file.Proxy != "" {
		cfg.Proxy = file.Proxy
	}
	if file.NoProxy != "" {
		cfg.NoProxy = file.NoProxy
	}
	if file.LogFormat != "" {
		format, err := parseLogFormat(file.LogFormat)
		if err != nil {
			return err
		}
		cfg.LogFormat = format
	}
	if file.Tools.XMLLint != "" {
		cfg.Tools.XMLLint = file.Tools.XMLLint
	}
	if file.Tools.XMLCatalog != "" {
		cfg.Tools.XMLCatalog = file.Tools.XMLCatalog
	}
	return nil
}

func (l *Loader) applyEnv(cfg *domain.Config) error {
	if v := l.getenv(EnvValidationService); v != "" {
		svc, err := domain.ParseService(v)
		if err != nil {
			return zerr.With(err, "env", EnvValidationService)
		}
		cfg.Defaults.Service = svc
	}
	if v := l.getenv(EnvCatalogPath); v != "" {
		cfg.Defaults.CatalogPath = v
	}
	if v := l.getenv(EnvValidatorHost); v != "" {
		cfg.Defaults.ServiceEndpoint = v
	}
	if v := l.getenv(EnvNoCache); v != "" {
		noCache, err := strconv.ParseBool(v)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "env", EnvNoCache)
		}
		cfg.Defaults.NoCache = noCache
	}
	if v := l.getenv(EnvCacheDir); v != "" {
		cfg.CacheDir = v
	}
	if v := l.getenv(EnvLogFormat); v != "" {
		format, err := parseLogFormat(v)
		if err != nil {
			return zerr.With(err, "env", EnvLogFormat)
		}
		cfg.LogFormat = format
	}
	return nil
}

func parseLogFormat(s string) (domain.LogFormat, error) {
	switch domain.LogFormat(strings.ToLower(strings.TrimSpace(s))) {
	case domain.LogPretty:
		return domain.LogPretty, nil
	case domain.LogJSON:
		return domain.LogJSON, nil
	default:
		return "", zerr.With(domain.ErrConfigParseFailed, "log_format", s)
	}
}

// resolvePath resolves a path from the config file against the file's directory.
func resolvePath(root, path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
