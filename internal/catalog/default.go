package catalog

import (
	_ "embed"
)

// DefaultPath is the pseudo path reported for the embedded catalog.
const DefaultPath = "<embedded>/default.toml"

//go:embed default.toml
var defaultCatalog []byte

// Default decodes the embedded default catalog.
func Default() (*File, error) {
	return Parse(FormatTOML, DefaultPath, defaultCatalog)
}
