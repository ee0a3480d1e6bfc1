package domain

import "encoding/json"

// VenueSummary is the result of a single venue lookup.
// Payload is the provider's response, rendered verbatim into the popup.
// It is never cached; it lives as long as the popup that shows it.
type VenueSummary struct {
	Provider string          `json:"provider"`
	Payload  json.RawMessage `json:"payload"`
}

// Content returns the popup text for the summary.
func (v VenueSummary) Content() string {
	return string(v.Payload)
}
