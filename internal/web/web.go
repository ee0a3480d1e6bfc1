// Package web embeds the single map page and the OpenAPI description of the
// JSON API it talks to. Serving them from the binary keeps the page, the
// API description and the running code in sync.
package web

import (
	_ "embed"
	"net/http"
)

// Page contains the raw bytes of index.html, embedded at compile time.
//
//go:embed index.html
var Page []byte

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var OpenAPI []byte

// PageHandler serves the map page.
func PageHandler() http.HandlerFunc {
	return serveBytes("text/html; charset=utf-8", Page)
}

// OpenAPIHandler serves the API description.
func OpenAPIHandler() http.HandlerFunc {
	return serveBytes("application/yaml", OpenAPI)
}

func serveBytes(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(body)
	}
}
