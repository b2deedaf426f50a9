package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownService is returned when a validation service name is not recognized.
	ErrUnknownService = zerr.New("unknown validation service, expected 'local' or 'w3c'")

	// ErrInvalidMarkup is returned by the CLI when at least one fragment failed validation.
	ErrInvalidMarkup = zerr.New("invalid markup")

	// ErrCatalogSetup is returned when the catalog directory or catalog file cannot be created.
	ErrCatalogSetup = zerr.New("failed to set up XML catalog")

	// ErrCatalogRegister is returned when a catalog entry cannot be registered.
	ErrCatalogRegister = zerr.New("failed to register XML catalog entry")

	// ErrCatalogLock is returned when the catalog lock cannot be acquired.
	ErrCatalogLock = zerr.New("failed to lock XML catalog")

	// ErrResourceFetchFailed is returned when a DTD resource cannot be fetched.
	ErrResourceFetchFailed = zerr.New("failed to fetch DTD resource")

	// ErrResourceWriteFailed is returned when a fetched DTD resource cannot be stored.
	ErrResourceWriteFailed = zerr.New("failed to store DTD resource")

	// ErrTempFileFailed is returned when the fragment cannot be written to a temporary file.
	ErrTempFileFailed = zerr.New("failed to write fragment to temporary file")

	// ErrCommandStartFailed is returned when an external tool cannot be started.
	ErrCommandStartFailed = zerr.New("failed to start external tool")

	// ErrCommandFailed is returned when an external tool exits with a non-zero status.
	ErrCommandFailed = zerr.New("external tool failed")

	// ErrServiceRequestFailed is returned when the remote validation request fails.
	ErrServiceRequestFailed = zerr.New("validation service request failed")

	// ErrServiceUnreachable is returned when the remote validation host cannot be reached.
	ErrServiceUnreachable = zerr.New("validation service unreachable")

	// ErrServiceResponseInvalid is returned when the validation service body cannot be parsed.
	ErrServiceResponseInvalid = zerr.New("unparsable validation service response")

	// ErrCacheCreateFailed is returned when the response cache directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create response cache directory")

	// ErrCacheMarshalFailed is returned when a response cannot be serialized.
	ErrCacheMarshalFailed = zerr.New("failed to marshal cached response")

	// ErrCacheWriteFailed is returned when a response cannot be written to the cache.
	ErrCacheWriteFailed = zerr.New("failed to write cached response")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInputReadFailed is returned when a file to validate cannot be read.
	ErrInputReadFailed = zerr.New("failed to read input")

	// ErrCleanFailed is returned when a cache directory cannot be removed.
	ErrCleanFailed = zerr.New("failed to remove directory")

	// ErrWatchFailed is returned when the file watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch directory")
)
