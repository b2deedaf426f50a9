package config

// Markupfile represents the structure of the markup.yaml configuration file.
// Pointer fields distinguish an explicit false from an absent key.
type Markupfile struct {
	Version           string   `yaml:"version"`
	ValidationService string   `yaml:"validation_service"`
	DTDValidate       *bool    `yaml:"dtd_validate"`
	CatalogPath       string   `yaml:"catalog_path"`
	ServiceEndpoint   string   `yaml:"service_endpoint"`
	NoCache           *bool    `yaml:"no_cache"`
	CacheDir          string   `yaml:"cache_dir"`
	Proxy             string   `yaml:"proxy"`
	NoProxy           string   `yaml:"no_proxy"`
	LogFormat         string   `yaml:"log_format"`
	Tools             ToolsDTO `yaml:"tools"`
}

// ToolsDTO overrides the names of the external binaries.
type ToolsDTO struct {
	XMLLint    string `yaml:"xmllint"`
	XMLCatalog string `yaml:"xmlcatalog"`
}
