package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/neighborhood-map/internal/config"
	"github.com/pkordes/neighborhood-map/internal/domain"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "CORS_ORIGINS", "VENUE_PROVIDER",
		"FOURSQUARE_CLIENT_ID", "FOURSQUARE_CLIENT_SECRET", "FOURSQUARE_API_VERSION", "FOURSQUARE_ENDPOINT",
		"GOOGLE_MAPS_API_KEY", "CATALOG_FILE", "MAP_CENTER", "MAP_ZOOM", "BOUNCE_DURATION", "LOOKUP_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

// TestLoad_defaults verifies that optional env vars fall back to their defaults
// when only the required Foursquare credentials are provided.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("FOURSQUARE_CLIENT_ID", "client")
	t.Setenv("FOURSQUARE_CLIENT_SECRET", "secret")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.CORSOrigins)
	require.Equal(t, config.ProviderFoursquare, cfg.VenueProvider)
	require.Equal(t, "client", cfg.FoursquareClientID)
	require.Equal(t, "secret", cfg.FoursquareClientSecret)
	require.Equal(t, "20170801", cfg.FoursquareAPIVersion)
	require.Equal(t, "https://api.foursquare.com/v2/venues/search", cfg.FoursquareEndpoint)
	require.Equal(t, "", cfg.CatalogFile)
	require.Equal(t, domain.Coordinate{Lat: 48.864716, Lng: 2.349014}, cfg.MapCenter)
	require.Equal(t, 14, cfg.MapZoom)
	require.Equal(t, 2*time.Second, cfg.BounceDuration)
	require.Equal(t, time.Duration(0), cfg.LookupTimeout)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://map.example.com, https://admin.example.com")
	t.Setenv("VENUE_PROVIDER", "Google")
	t.Setenv("GOOGLE_MAPS_API_KEY", "gkey")
	t.Setenv("CATALOG_FILE", "/etc/places.json")
	t.Setenv("MAP_CENTER", "45.5, -73.6")
	t.Setenv("MAP_ZOOM", "12")
	t.Setenv("BOUNCE_DURATION", "500ms")
	t.Setenv("LOOKUP_TIMEOUT", "5s")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"https://map.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, config.ProviderGoogle, cfg.VenueProvider)
	require.Equal(t, "gkey", cfg.GoogleMapsAPIKey)
	require.Equal(t, "/etc/places.json", cfg.CatalogFile)
	require.Equal(t, domain.Coordinate{Lat: 45.5, Lng: -73.6}, cfg.MapCenter)
	require.Equal(t, 12, cfg.MapZoom)
	require.Equal(t, 500*time.Millisecond, cfg.BounceDuration)
	require.Equal(t, 5*time.Second, cfg.LookupTimeout)
}

// TestLoad_missingRequired verifies that an error names every missing
// Foursquare credential.
func TestLoad_missingRequired(t *testing.T) {
	clearEnv(t)

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "FOURSQUARE_CLIENT_ID")
	require.ErrorContains(t, err, "FOURSQUARE_CLIENT_SECRET")
}

func TestLoad_googleRequiresKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("VENUE_PROVIDER", "google")

	_, err := config.Load()

	require.ErrorContains(t, err, "GOOGLE_MAPS_API_KEY")
}

func TestLoad_unknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("VENUE_PROVIDER", "yelp")

	_, err := config.Load()

	require.ErrorContains(t, err, "VENUE_PROVIDER")
}

func TestLoad_invalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"MAP_CENTER", "48.86"},
		{"MAP_CENTER", "north,2.3"},
		{"MAP_CENTER", "95,2.3"},
		{"MAP_ZOOM", "close"},
		{"BOUNCE_DURATION", "2"},
		{"LOOKUP_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("FOURSQUARE_CLIENT_ID", "client")
			t.Setenv("FOURSQUARE_CLIENT_SECRET", "secret")
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()

			require.ErrorContains(t, err, tt.key)
		})
	}
}

// TestLoad_dotEnv verifies that credentials can come from a .env file in the
// working directory.
func TestLoad_dotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv("FOURSQUARE_CLIENT_ID"))
	require.NoError(t, os.Unsetenv("FOURSQUARE_CLIENT_SECRET"))

	dir := t.TempDir()
	env := "FOURSQUARE_CLIENT_ID=from-file\nFOURSQUARE_CLIENT_SECRET=file-secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Chdir(dir)

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.FoursquareClientID)
	require.Equal(t, "file-secret", cfg.FoursquareClientSecret)
}
