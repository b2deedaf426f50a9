package domain

import (
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "markup.yaml"

	// CatalogDirName is the name of the catalog directory under the user's home.
	CatalogDirName = ".xml-catalog"

	// CatalogFileName is the name of the XML catalog file inside the catalog directory.
	CatalogFileName = "catalog"

	// CatalogLockName is the name of the advisory lock file inside the catalog directory.
	CatalogLockName = ".lock"

	// CacheDirName is the name of the response cache directory under the system temp dir.
	CacheDirName = "markup-cache"

	// DefaultServiceEndpoint is the public W3C markup validator host.
	DefaultServiceEndpoint = "validator.w3.org"

	// DefaultXMLLint is the default name of the local validation tool.
	DefaultXMLLint = "xmllint"

	// DefaultXMLCatalog is the default name of the catalog management tool.
	DefaultXMLCatalog = "xmlcatalog"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultCatalogPath returns the default catalog directory, a dotfile under the user's home.
// It falls back to the temp directory when no home directory can be determined.
func DefaultCatalogPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), CatalogDirName)
	}
	return filepath.Join(home, CatalogDirName)
}

// DefaultCacheDir returns the default response cache directory.
func DefaultCacheDir() string {
	return filepath.Join(os.TempDir(), CacheDirName)
}

// CatalogFile returns the path of the catalog file inside the given catalog directory.
func CatalogFile(catalogPath string) string {
	return filepath.Join(catalogPath, CatalogFileName)
}
