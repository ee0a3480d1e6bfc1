// Package filter derives the visible subset of the catalog from a text query.
package filter

import (
	"strings"

	"github.com/pkordes/neighborhood-map/internal/domain"
)

// Compute returns, in input order, every place whose name contains query as
// a case-sensitive substring. An empty query matches every place.
// The result is always a new slice; places is never modified.
func Compute(places []domain.Place, query string) []domain.Place {
	out := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if strings.Contains(p.Name, query) {
			out = append(out, p)
		}
	}
	return out
}
