package catalog

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Catalog is a read-only, in-memory product collection loaded once at
// startup. It is safe for concurrent readers; there are no mutators.
type Catalog struct {
	products []Product
	byID     map[string]Product
}

type catalogFile struct {
	Products []Product `yaml:"products"`
}

// Load reads and validates the product catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to read %s: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: invalid yaml in %s: %w", path, err)
	}

	c, err := New(file.Products)
	if err != nil {
		return nil, err
	}

	log.Info().Int("products", len(c.products)).Str("path", path).Msg("Catalog loaded")

	return c, nil
}

// New builds a catalog from an already-parsed product list and validates it.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: products,
		byID:     make(map[string]Product, len(products)),
	}

	for _, p := range products {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("catalog: product with empty id or name")
		}
		if !p.Category.Valid() {
			return nil, fmt.Errorf("catalog: product %s has unknown category %q", p.ID, p.Category)
		}
		if p.Price <= 0 {
			return nil, fmt.Errorf("catalog: product %s has non-positive price %d", p.ID, p.Price)
		}
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("catalog: duplicate product id %s", p.ID)
		}
		c.byID[p.ID] = p
	}

	return c, nil
}

// Product returns the product with the given id.
func (c *Catalog) Product(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Products returns all products in catalog order. The returned slice is a
// copy; callers may not mutate catalog state through it.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Featured returns the products flagged as bestsellers.
func (c *Catalog) Featured() []Product {
	var out []Product
	for _, p := range c.products {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Filter returns products matching the given category and/or case-insensitive
// name substring. Empty arguments match everything.
func (c *Catalog) Filter(category Category, query string) []Product {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []Product
	for _, p := range c.products {
		if category != "" && p.Category != category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// VolumePrice derives the price for a bottle volume from the base (50ml)
// price: 100ml costs 1.8x, 200ml costs 3.2x, anything else scales linearly
// by ml/50. An empty or unparseable volume falls back to the base price.
func VolumePrice(volume string, basePrice int64) int64 {
	if volume == "" {
		return basePrice
	}
	ml, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(volume), "ml"))
	if err != nil || ml <= 0 {
		return basePrice
	}
	switch ml {
	case 50:
		return basePrice
	case 100:
		return int64(math.Round(float64(basePrice) * 1.8))
	case 200:
		return int64(math.Round(float64(basePrice) * 3.2))
	}
	return int64(math.Round(float64(basePrice) * float64(ml) / 50))
}
