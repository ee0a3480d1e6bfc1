package domain

// AppState is the application-level state of the browser.
type AppState string

const (
	// StateUninitialized is the state before the map has been populated.
	StateUninitialized AppState = "uninitialized"
	// StatePopulated means every marker is shown (empty query).
	StatePopulated AppState = "populated"
	// StateFiltered means a non-empty query is hiding some or no markers.
	StateFiltered AppState = "filtered"
)
