// Package config loads and validates application configuration from environment variables.
// A .env file in the working directory, when present, is loaded first; variables
// already set in the environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pkordes/neighborhood-map/internal/domain"
)

// Venue providers accepted by VENUE_PROVIDER.
const (
	ProviderFoursquare = "foursquare"
	ProviderGoogle     = "google"
)

// Config holds all configuration values for the map browser.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Empty by default: the embedded page is same-origin. Set CORS_ORIGINS to a
	// comma-separated list to override.
	CORSOrigins []string

	// VenueProvider selects the venue lookup: "foursquare" (default) or "google".
	VenueProvider string

	// Foursquare credentials. Required when VenueProvider is "foursquare".
	FoursquareClientID     string
	FoursquareClientSecret string
	// FoursquareAPIVersion is sent as the v parameter. Defaults to "20170801".
	FoursquareAPIVersion string
	// FoursquareEndpoint defaults to the v2 venue search URL.
	FoursquareEndpoint string

	// GoogleMapsAPIKey is required when VenueProvider is "google".
	GoogleMapsAPIKey string

	// CatalogFile replaces the embedded place list when set.
	CatalogFile string

	// MapCenter is the camera center before the map is fitted to the markers.
	// Set MAP_CENTER as "lat,lng". Defaults to central Paris.
	MapCenter domain.Coordinate
	// MapZoom is the initial zoom level. Defaults to 14.
	MapZoom int

	// BounceDuration is how long a marker bounces. Defaults to 2s.
	BounceDuration time.Duration
	// LookupTimeout bounds each venue lookup. Defaults to 0 (no timeout).
	LookupTimeout time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first variable whose value cannot be parsed.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Port:                   getEnv("PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		CORSOrigins:            splitCSV(os.Getenv("CORS_ORIGINS")),
		VenueProvider:          strings.ToLower(getEnv("VENUE_PROVIDER", ProviderFoursquare)),
		FoursquareClientID:     os.Getenv("FOURSQUARE_CLIENT_ID"),
		FoursquareClientSecret: os.Getenv("FOURSQUARE_CLIENT_SECRET"),
		FoursquareAPIVersion:   getEnv("FOURSQUARE_API_VERSION", "20170801"),
		FoursquareEndpoint:     getEnv("FOURSQUARE_ENDPOINT", "https://api.foursquare.com/v2/venues/search"),
		GoogleMapsAPIKey:       os.Getenv("GOOGLE_MAPS_API_KEY"),
		CatalogFile:            os.Getenv("CATALOG_FILE"),
	}

	var err error
	if cfg.MapCenter, err = parseCoordinate(getEnv("MAP_CENTER", "48.864716,2.349014")); err != nil {
		return Config{}, fmt.Errorf("MAP_CENTER: %w", err)
	}
	if cfg.MapZoom, err = strconv.Atoi(getEnv("MAP_ZOOM", "14")); err != nil {
		return Config{}, fmt.Errorf("MAP_ZOOM: %w", err)
	}
	if cfg.BounceDuration, err = time.ParseDuration(getEnv("BOUNCE_DURATION", "2s")); err != nil {
		return Config{}, fmt.Errorf("BOUNCE_DURATION: %w", err)
	}
	if cfg.LookupTimeout, err = time.ParseDuration(getEnv("LOOKUP_TIMEOUT", "0s")); err != nil {
		return Config{}, fmt.Errorf("LOOKUP_TIMEOUT: %w", err)
	}

	var missing []string
	switch cfg.VenueProvider {
	case ProviderFoursquare:
		if cfg.FoursquareClientID == "" {
			missing = append(missing, "FOURSQUARE_CLIENT_ID")
		}
		if cfg.FoursquareClientSecret == "" {
			missing = append(missing, "FOURSQUARE_CLIENT_SECRET")
		}
	case ProviderGoogle:
		if cfg.GoogleMapsAPIKey == "" {
			missing = append(missing, "GOOGLE_MAPS_API_KEY")
		}
	default:
		return Config{}, fmt.Errorf("VENUE_PROVIDER: unknown provider %q (want %s or %s)", cfg.VenueProvider, ProviderFoursquare, ProviderGoogle)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// parseCoordinate parses "lat,lng" into a validated Coordinate.
func parseCoordinate(s string) (domain.Coordinate, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Coordinate{}, fmt.Errorf("want \"lat,lng\", got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("longitude: %w", err)
	}
	c := domain.Coordinate{Lat: lat, Lng: lng}
	if err := c.Validate(); err != nil {
		return domain.Coordinate{}, err
	}
	return c, nil
}
