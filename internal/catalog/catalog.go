// Package catalog holds the bundled product catalog and the default values
// applied to product records that arrive incomplete from the backend.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"gtech/internal/domain"
)

//go:embed products.json
var bundled []byte

// Default returns a fresh copy of the bundled catalog.
func Default() []domain.Product {
	list, err := Parse(bundled)
	if err != nil {
		panic(fmt.Sprintf("catalog: bundled products.json: %v", err))
	}
	return list
}

// Parse decodes a JSON array of products.
func Parse(data []byte) ([]domain.Product, error) {
	var list []domain.Product
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Normalize fills in optional fields the backend may omit.
func Normalize(p domain.Product, now time.Time) domain.Product {
	if !p.Category.Valid() {
		p.Category = domain.CategoryAccessories
	}
	if !p.Condition.Valid() {
		p.Condition = domain.ConditionNew
	}
	if !p.Brand.Valid() {
		p.Brand = domain.BrandOther
	}
	if !p.Location.Valid() {
		p.Location = domain.CityChennai
	}
	if p.Specs == nil {
		p.Specs = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now.UTC()
	}
	return p
}
