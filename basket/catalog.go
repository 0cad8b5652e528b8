// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package basket

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Catalog is a static, read-only, ordered list of products, loaded at
// startup. The core never mutates it.
type Catalog struct {
	products []Product
	byID     map[int64]Product
}

// catalogFile is the YAML shape of a catalog definition.
type catalogFile struct {
	Products []productSpec `yaml:"products"`
}

type productSpec struct {
	ID          int64    `yaml:"id"`
	Name        string   `yaml:"name"`
	Price       string   `yaml:"price"`
	Description string   `yaml:"description"`
	Images      []string `yaml:"images"`
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the embedded catalog. The embedded file is
// validated at first use; a broken build is unusable, so failures
// panic.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		catalog, err := parseCatalog(embeddedCatalog)
		if err != nil {
			panic("basket: embedded catalog invalid: " + err.Error())
		}
		defaultCatalog = catalog
	})
	return defaultCatalog
}

// LoadCatalog reads a catalog definition from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	catalog, err := parseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return catalog, nil
}

// parseCatalog decodes and validates a catalog definition: at least
// one product, unique IDs, non-empty names, parseable non-negative
// prices.
func parseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if len(file.Products) == 0 {
		return nil, fmt.Errorf("no products defined")
	}

	catalog := &Catalog{
		products: make([]Product, 0, len(file.Products)),
		byID:     make(map[int64]Product, len(file.Products)),
	}
	for _, spec := range file.Products {
		if spec.Name == "" {
			return nil, fmt.Errorf("product id %d has no name", spec.ID)
		}
		if _, exists := catalog.byID[spec.ID]; exists {
			return nil, fmt.Errorf("duplicate product id %d", spec.ID)
		}
		cents, err := ParsePrice(spec.Price)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", spec.Name, err)
		}
		product := Product{
			ID:          spec.ID,
			Name:        spec.Name,
			PriceCents:  cents,
			Description: spec.Description,
			Images:      slices.Clone(spec.Images),
		}
		catalog.products = append(catalog.products, product)
		catalog.byID[spec.ID] = product
	}
	return catalog, nil
}

// Products returns the catalog in definition order. The returned
// slice is a copy.
func (c *Catalog) Products() []Product {
	return slices.Clone(c.products)
}

// ByID returns the product with the given ID.
func (c *Catalog) ByID(id int64) (Product, bool) {
	product, ok := c.byID[id]
	return product, ok
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }
