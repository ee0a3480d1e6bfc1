// Package venue looks up point-of-interest metadata for a marker.
// Each lookup issues exactly one request; results are never cached and
// failures are never retried.
package venue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkordes/neighborhood-map/internal/domain"
)

const (
	// DefaultFoursquareEndpoint is the v2 venue search endpoint.
	DefaultFoursquareEndpoint = "https://api.foursquare.com/v2/venues/search"
	// DefaultFoursquareVersion is the API version date sent as the v parameter.
	DefaultFoursquareVersion = "20170801"

	foursquareName = "Foursquare"
	maxBodyBytes   = 1 << 20
)

// FoursquareConfig holds the credentials and endpoint of the venue search API.
type FoursquareConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Version      string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Foursquare resolves a marker to at most one matching venue.
type Foursquare struct {
	cfg    FoursquareConfig
	client *http.Client
}

// NewFoursquare constructs a Foursquare client, filling in defaults for the
// endpoint, version and HTTP client.
func NewFoursquare(cfg FoursquareConfig) *Foursquare {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultFoursquareEndpoint
	}
	if cfg.Version == "" {
		cfg.Version = DefaultFoursquareVersion
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &Foursquare{cfg: cfg, client: client}
}

// Name returns the provider name shown to the user.
func (f *Foursquare) Name() string {
	return foursquareName
}

// Lookup searches for the venue named name at coord. The returned payload is
// the raw "response" member of the reply. Every failure wraps domain.ErrLookupFailed.
func (f *Foursquare) Lookup(ctx context.Context, coord domain.Coordinate, name string) (domain.VenueSummary, error) {
	params := url.Values{}
	params.Set("client_id", f.cfg.ClientID)
	params.Set("client_secret", f.cfg.ClientSecret)
	params.Set("v", f.cfg.Version)
	params.Set("ll", formatFloat(coord.Lat)+","+formatFloat(coord.Lng))
	params.Set("limit", "1")
	params.Set("intent", "match")
	params.Set("name", name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return domain.VenueSummary{}, lookupErr("venue.Foursquare.Lookup", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.VenueSummary{}, lookupErr("venue.Foursquare.Lookup", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.VenueSummary{}, lookupErr("venue.Foursquare.Lookup", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.VenueSummary{}, lookupErr("venue.Foursquare.Lookup", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var envelope struct {
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return domain.VenueSummary{}, lookupErr("venue.Foursquare.Lookup", fmt.Errorf("decode body: %w", err))
	}
	if len(envelope.Response) == 0 || bytes.Equal(envelope.Response, []byte("null")) {
		return domain.VenueSummary{}, lookupErr("venue.Foursquare.Lookup", fmt.Errorf("reply has no response member"))
	}

	return domain.VenueSummary{Provider: foursquareName, Payload: envelope.Response}, nil
}

// lookupErr wraps cause so that callers can match domain.ErrLookupFailed
// while the message keeps the underlying reason.
func lookupErr(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrLookupFailed, cause)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
