// Package handler implements the HTTP surface the map page talks to.
// All handlers are methods on Server. Methods are split into files by concern
// (health.go, browser.go) but share the same Server struct so they can reach
// its dependencies.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/neighborhood-map/internal/domain"
	"github.com/pkordes/neighborhood-map/internal/service"
)

// BrowserServicer defines the browser operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without a map scene or a venue provider.
type BrowserServicer interface {
	View() service.View
	SetQuery(q string) service.View
	Places(q string) []domain.Place
	Click(id uuid.UUID) error
	ClosePopup(id uuid.UUID) error
	DismissAlert(id uuid.UUID) error
}

// Server implements the JSON API. Mount Routes() on the application router.
type Server struct {
	browser BrowserServicer
}

// NewServer constructs the Server with all its dependencies.
// A nil browser yields a health-check-only server.
func NewServer(browser BrowserServicer) *Server {
	return &Server{browser: browser}
}

// Routes returns a router serving /healthz and the /api endpoints.
// The /api routes are only registered when a BrowserServicer is present.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)

	if s.browser == nil {
		return r
	}
	r.Route("/api", func(r chi.Router) {
		r.Get("/view", s.GetView)
		r.Get("/places", s.ListPlaces)
		r.Put("/query", s.PutQuery)
		r.Post("/markers/{markerId}/click", s.ClickMarker)
		r.Delete("/markers/{markerId}/popup", s.ClosePopup)
		r.Delete("/alerts/{alertId}", s.DismissAlert)
	})
	return r
}
