// Package domain contains the core data types for the neighborhood map.
// This package has zero external dependencies and is imported by every other
// internal package (catalog, markers, venue, service, handler).
package domain

import "fmt"

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate reports whether the coordinate lies within the WGS84 ranges.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrValidation, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrValidation, c.Lng)
	}
	return nil
}

// Place is a named point of interest shown on the map.
// Place is a comparable value and is never mutated after construction.
// ExternalID is the Google place ID; uniqueness is assumed, not enforced.
type Place struct {
	Name       string     `json:"name"`
	ExternalID string     `json:"place_id"`
	Coordinate Coordinate `json:"location"`
}

// Validate checks the fields a catalog entry must carry.
func (p Place) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: place name is required", ErrValidation)
	}
	if err := p.Coordinate.Validate(); err != nil {
		return fmt.Errorf("place %q: %w", p.Name, err)
	}
	return nil
}
