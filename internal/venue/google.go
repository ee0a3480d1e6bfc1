package venue

import (
	"context"
	"encoding/json"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/pkordes/neighborhood-map/internal/domain"
)

const googleName = "Google Places"

// GooglePlaces resolves a marker through the Places "find place" search,
// biased to the marker's coordinate.
type GooglePlaces struct {
	client *maps.Client
}

// NewGooglePlaces constructs a GooglePlaces lookup authenticated with apiKey.
// Extra options (e.g. maps.WithBaseURL in tests) are applied after the key.
func NewGooglePlaces(apiKey string, opts ...maps.ClientOption) (*GooglePlaces, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("venue.NewGooglePlaces: %w", err)
	}
	return &GooglePlaces{client: client}, nil
}

// Name returns the provider name shown to the user.
func (g *GooglePlaces) Name() string {
	return googleName
}

// Lookup returns at most one candidate matching name near coord.
// Every failure wraps domain.ErrLookupFailed.
func (g *GooglePlaces) Lookup(ctx context.Context, coord domain.Coordinate, name string) (domain.VenueSummary, error) {
	req := &maps.FindPlaceFromTextRequest{
		Input:     name,
		InputType: maps.FindPlaceFromTextInputTypeTextQuery,
		Fields: []maps.PlaceSearchFieldMask{
			maps.PlaceSearchFieldMaskName,
			maps.PlaceSearchFieldMaskPlaceID,
			maps.PlaceSearchFieldMaskFormattedAddress,
			maps.PlaceSearchFieldMaskGeometry,
		},
		LocationBias:      maps.FindPlaceFromTextLocationBiasPoint,
		LocationBiasPoint: &maps.LatLng{Lat: coord.Lat, Lng: coord.Lng},
	}

	resp, err := g.client.FindPlaceFromText(ctx, req)
	if err != nil {
		return domain.VenueSummary{}, lookupErr("venue.GooglePlaces.Lookup", err)
	}

	candidates := resp.Candidates
	if len(candidates) > 1 {
		candidates = candidates[:1]
	}
	if candidates == nil {
		candidates = []maps.PlacesSearchResult{}
	}
	payload, err := json.Marshal(struct {
		Candidates []maps.PlacesSearchResult `json:"candidates"`
	}{Candidates: candidates})
	if err != nil {
		return domain.VenueSummary{}, lookupErr("venue.GooglePlaces.Lookup", err)
	}

	return domain.VenueSummary{Provider: googleName, Payload: payload}, nil
}
