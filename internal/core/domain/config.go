package domain

// LogFormat selects the log output encoding.
type LogFormat string

const (
	// LogPretty renders human readable, colored log lines.
	LogPretty LogFormat = "pretty"
	// LogJSON renders one JSON object per log line.
	LogJSON LogFormat = "json"
)

// Tools names the external binaries used by the local backend.
type Tools struct {
	XMLLint    string
	XMLCatalog string
}

// Config is the resolved process-wide configuration.
type Config struct {
	// Defaults are the validation options every call starts from.
	Defaults  Options
	CacheDir  string
	Proxy     string
	NoProxy   string
	LogFormat LogFormat
	Tools     Tools
}

// DefaultConfig returns the configuration used when no config file or environment overrides exist.
func DefaultConfig() *Config {
	return &Config{
		Defaults:  DefaultOptions(),
		CacheDir:  DefaultCacheDir(),
		LogFormat: LogPretty,
		Tools: Tools{
			XMLLint:    DefaultXMLLint,
			XMLCatalog: DefaultXMLCatalog,
		},
	}
}
