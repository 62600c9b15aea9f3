package cli

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

//go:embed catalog.yaml
var sampleCatalog []byte

// loadCatalog reads the catalog YAML at path, or the built-in sample catalog
// when path is empty.
func loadCatalog(path string) (types.Catalog, error) {
	data := sampleCatalog
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return types.Catalog{}, fmt.Errorf("read catalog: %w", err)
		}
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (types.Catalog, error) {
	var c types.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return types.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return types.Catalog{}, err
	}
	return c, nil
}
