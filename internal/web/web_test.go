package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/neighborhood-map/internal/web"
)

func TestPageHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	web.PageHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `id="map"`)
	assert.Contains(t, rec.Body.String(), "/api/view")
}

func TestOpenAPIHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	web.OpenAPIHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")
	for _, path := range []string{"/healthz", "/api/view", "/api/places", "/api/query", "/api/markers/{markerId}/click", "/api/markers/{markerId}/popup", "/api/alerts/{alertId}"} {
		assert.Contains(t, rec.Body.String(), path+":")
	}
}
