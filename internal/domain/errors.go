package domain

import "errors"

// ErrNotFound is returned when a marker, popup or alert referenced by ID
// does not exist on the map (or is not currently shown).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails validation (e.g. a catalog
// entry without a name, or a malformed request body).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrLookupFailed is returned by venue lookups on any transport, status or
// decoding failure. It is the only error the browser recovers from: the user
// is alerted and filtering and marker state are left untouched.
var ErrLookupFailed = errors.New("venue lookup failed")

// ErrMapInit is returned when the map scene cannot be constructed.
// It is fatal: the process exits and the user must reload.
var ErrMapInit = errors.New("map initialisation failed")

// ErrorDetail is the machine-readable code and human-readable message of a failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx JSON response, whether written by
// a handler or rejected earlier by middleware.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// NewErrorResponse builds an ErrorResponse from a code and message.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}
