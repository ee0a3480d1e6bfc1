// Package catalog provides the fixed list of places shown on the map.
// The seed list is embedded at compile time; a JSON file of the same shape
// can replace it at startup. A Catalog never changes once loaded.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkordes/neighborhood-map/internal/domain"
)

// seed contains the raw bytes of places.json, embedded at compile time.
//
//go:embed places.json
var seed []byte

// Catalog is an immutable, ordered list of places.
type Catalog struct {
	places []domain.Place
}

// New builds a Catalog from places, validating each entry.
// The slice is copied so later changes by the caller are not observed.
func New(places []domain.Place) (*Catalog, error) {
	for i, p := range places {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("catalog.New: entry %d: %w", i, err)
		}
	}
	out := make([]domain.Place, len(places))
	copy(out, places)
	return &Catalog{places: out}, nil
}

// Seed returns the compiled-in catalog.
func Seed() (*Catalog, error) {
	c, err := Decode(bytes.NewReader(seed))
	if err != nil {
		return nil, fmt.Errorf("catalog.Seed: %w", err)
	}
	return c, nil
}

// Load returns the catalog stored at path, or the seed catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Seed()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: %s: %w", path, err)
	}
	return c, nil
}

// Decode reads a JSON array of places from r.
func Decode(r io.Reader) (*Catalog, error) {
	var places []domain.Place
	if err := json.NewDecoder(r).Decode(&places); err != nil {
		return nil, fmt.Errorf("%w: decode places: %v", domain.ErrValidation, err)
	}
	return New(places)
}

// Places returns a copy of the catalog in its original order.
func (c *Catalog) Places() []domain.Place {
	out := make([]domain.Place, len(c.places))
	copy(out, c.places)
	return out
}

// Len returns the number of places in the catalog.
func (c *Catalog) Len() int {
	return len(c.places)
}
