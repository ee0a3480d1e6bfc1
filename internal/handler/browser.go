package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/neighborhood-map/internal/domain"
)

// QueryRequest is the body of PUT /api/query.
type QueryRequest struct {
	Query *string `json:"query"`
}

// ClickResponse is the body of POST /api/markers/{markerId}/click.
type ClickResponse struct {
	Status string `json:"status"`
}

// GetView handles GET /api/view.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.browser.View())
}

// ListPlaces handles GET /api/places.
// The optional ?q= parameter filters places by case-sensitive substring
// without changing the map's current query.
func (s *Server) ListPlaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.browser.Places(r.URL.Query().Get("q")))
}

// PutQuery handles PUT /api/query and returns the resulting view.
func (s *Server) PutQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Query == nil {
		writeJSON(w, r, http.StatusUnprocessableEntity, validationBody(fmt.Errorf("%w: query is required", domain.ErrValidation)))
		return
	}
	writeJSON(w, r, http.StatusOK, s.browser.SetQuery(*req.Query))
}

// ClickMarker handles POST /api/markers/{markerId}/click.
// The venue lookup runs asynchronously; its popup or alert shows up in the view.
func (s *Server) ClickMarker(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "markerId"))
	if err == nil {
		err = s.browser.Click(id)
	}
	if err != nil {
		writeServiceError(w, r, err, "marker not found")
		return
	}
	writeJSON(w, r, http.StatusAccepted, ClickResponse{Status: "lookup started"})
}

// ClosePopup handles DELETE /api/markers/{markerId}/popup.
func (s *Server) ClosePopup(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "markerId"))
	if err == nil {
		err = s.browser.ClosePopup(id)
	}
	if err != nil {
		writeServiceError(w, r, err, "popup not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DismissAlert handles DELETE /api/alerts/{alertId}.
func (s *Server) DismissAlert(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "alertId"))
	if err == nil {
		err = s.browser.DismissAlert(id)
	}
	if err != nil {
		writeServiceError(w, r, err, "alert not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
