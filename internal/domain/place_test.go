package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/neighborhood-map/internal/domain"
)

func TestPlace_Validate(t *testing.T) {
	tests := []struct {
		name    string
		place   domain.Place
		wantErr bool
	}{
		{"valid", domain.Place{Name: "Aki", Coordinate: domain.Coordinate{Lat: 48.86, Lng: 2.33}}, false},
		{"empty name", domain.Place{Coordinate: domain.Coordinate{Lat: 48.86, Lng: 2.33}}, true},
		{"latitude too high", domain.Place{Name: "Pole", Coordinate: domain.Coordinate{Lat: 90.1}}, true},
		{"longitude too low", domain.Place{Name: "Dateline", Coordinate: domain.Coordinate{Lng: -180.5}}, true},
		{"edges are valid", domain.Place{Name: "Edge", Coordinate: domain.Coordinate{Lat: -90, Lng: 180}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.place.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestVenueSummary_Content(t *testing.T) {
	v := domain.VenueSummary{Provider: "Foursquare", Payload: []byte(`{"venues":[]}`)}
	assert.Equal(t, `{"venues":[]}`, v.Content())
}
