package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/neighborhood-map/internal/domain"
)

// notFoundBody returns a domain.ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "marker not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) domain.ErrorResponse {
	return domain.NewErrorResponse("not_found", message)
}

// validationBody returns an ErrorResponse for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationBody(err error) domain.ErrorResponse {
	return domain.NewErrorResponse("validation_error", unwrapMessage(err))
}

// requestBody returns an ErrorResponse for a request rejected before reaching
// the service layer (e.g. malformed JSON).
func requestBody(message string) domain.ErrorResponse {
	return domain.NewErrorResponse("bad_request", message)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "validation error: query is required" → "query is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const prefix = "validation error: "
	if i := strings.Index(msg, prefix); i >= 0 && len(msg) > i+len(prefix) {
		return msg[i+len(prefix):]
	}
	return msg
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode response", "error", err, "path", r.URL.Path)
	}
}

// writeServiceError maps a service error to its HTTP status.
// notFound names the resource for 404 responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, r, http.StatusNotFound, notFoundBody(notFound))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, r, http.StatusUnprocessableEntity, validationBody(err))
	default:
		slog.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
		writeJSON(w, r, http.StatusInternalServerError, domain.NewErrorResponse("internal", "internal error"))
	}
}

// decodeBody decodes a JSON request body into v and writes the error response
// itself when decoding fails. It reports whether the caller should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, r, http.StatusRequestEntityTooLarge, requestBody("request body too large"))
			return false
		}
		writeJSON(w, r, http.StatusBadRequest, requestBody("malformed JSON body"))
		return false
	}
	return true
}

// parseID parses a UUID path parameter. An unparsable ID cannot name an
// existing resource, so it is reported as domain.ErrNotFound.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrNotFound
	}
	return id, nil
}
