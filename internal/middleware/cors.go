// Package middleware provides reusable HTTP middleware for the map browser.
package middleware

import (
	"net/http"
	"time"

	"github.com/rs/cors"
)

// corsMethods are the methods the /api routes answer to.
var corsMethods = []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete}

// corsMaxAge is how long a browser may cache a preflight result.
const corsMaxAge = 10 * time.Minute

// NewCORSHandler returns a middleware that lets the listed origins call the
// JSON API from a page they serve themselves, e.g. a frontend dev server.
// Each entry must be a full origin (scheme + host, no trailing slash).
//
// The embedded page is same-origin and needs no CORS. With no origins
// configured the middleware passes requests through untouched; rs/cors would
// otherwise read an empty list as "allow every origin".
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: corsMethods,
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         int(corsMaxAge / time.Second),
	})
	return c.Handler
}
