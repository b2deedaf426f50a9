package domain

// CatalogEntry maps a public/system identifier pair to a locally stored DTD resource.
type CatalogEntry struct {
	PublicID  string
	SystemID  string
	LocalPath string
}
