// Package mapview holds the in-memory map scene the browser page mirrors:
// camera, markers, popups and pending alerts.
//
// The page renders the map tiles itself; Scene is the source of truth for what
// is drawn on top of them. It satisfies markers.View and the service's popup
// and alert needs, and Snapshot gives the page a consistent copy to render.
package mapview

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/umahmood/haversine"

	"github.com/pkordes/neighborhood-map/internal/domain"
)

const (
	// MinZoom and MaxZoom bound the camera zoom levels of a slippy map.
	MinZoom = 0
	MaxZoom = 22
)

// Options configures the initial camera.
type Options struct {
	Center domain.Coordinate
	Zoom   int
}

// Bounds is a south-west / north-east rectangle in map coordinates.
type Bounds struct {
	SouthWest domain.Coordinate `json:"south_west"`
	NorthEast domain.Coordinate `json:"north_east"`
}

// Camera is the current viewport of the map.
// Bounds is nil until the camera has been fitted to the markers.
type Camera struct {
	Center domain.Coordinate `json:"center"`
	Zoom   int               `json:"zoom"`
	Bounds *Bounds           `json:"bounds,omitempty"`
}

// Marker is the rendered state of one marker.
type Marker struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	Position   domain.Coordinate `json:"position"`
	Visible    bool              `json:"visible"`
	Bouncing   bool              `json:"bouncing"`
	DistanceKM float64           `json:"distance_km"`
	Popup      *string           `json:"popup,omitempty"`
}

// Alert is a blocking notification waiting to be acknowledged by the user.
type Alert struct {
	ID       uuid.UUID `json:"id"`
	Message  string    `json:"message"`
	RaisedAt time.Time `json:"raised_at"`
}

// Snapshot is a point-in-time copy of the scene.
type Snapshot struct {
	Camera  Camera   `json:"camera"`
	Markers []Marker `json:"markers"`
	Alerts  []Alert  `json:"alerts"`
}

type marker struct {
	title    string
	position domain.Coordinate
	visible  bool
	bouncing bool
	popup    *string
	onClick  func()
}

// Scene is safe for concurrent use.
type Scene struct {
	origin domain.Coordinate

	mu      sync.RWMutex
	camera  Camera
	order   []uuid.UUID
	markers map[uuid.UUID]*marker
	alerts  []Alert
}

// New constructs a Scene with the given initial camera.
// An invalid center or zoom level fails with domain.ErrMapInit.
func New(opts Options) (*Scene, error) {
	if err := opts.Center.Validate(); err != nil {
		return nil, fmt.Errorf("mapview.New: %w: %v", domain.ErrMapInit, err)
	}
	if opts.Zoom < MinZoom || opts.Zoom > MaxZoom {
		return nil, fmt.Errorf("mapview.New: %w: zoom %d outside [%d, %d]", domain.ErrMapInit, opts.Zoom, MinZoom, MaxZoom)
	}
	return &Scene{
		origin:  opts.Center,
		camera:  Camera{Center: opts.Center, Zoom: opts.Zoom},
		markers: make(map[uuid.UUID]*marker),
	}, nil
}

// CreateMarker adds a visible marker to the scene.
func (s *Scene) CreateMarker(id uuid.UUID, title string, at domain.Coordinate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.markers[id]; ok {
		return fmt.Errorf("mapview.Scene.CreateMarker: marker %s already exists", id)
	}
	s.markers[id] = &marker{title: title, position: at, visible: true}
	s.order = append(s.order, id)
	return nil
}

// SetVisible shows or hides a marker. Hiding a marker closes its popup.
func (s *Scene) SetVisible(id uuid.UUID, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.markers[id]
	if !ok {
		return
	}
	m.visible = visible
	if !visible {
		m.popup = nil
	}
}

// SetBouncing starts or stops the bounce animation of a marker.
func (s *Scene) SetBouncing(id uuid.UUID, bouncing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.markers[id]; ok {
		m.bouncing = bouncing
	}
}

// OnClick registers fn as the click listener of a marker, replacing any
// previous listener.
func (s *Scene) OnClick(id uuid.UUID, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.markers[id]; ok {
		m.onClick = fn
	}
}

// Click dispatches a click on a marker to its listener.
// Unknown and hidden markers return domain.ErrNotFound.
// The listener runs without the scene lock held, so it may call back into the scene.
func (s *Scene) Click(id uuid.UUID) error {
	s.mu.RLock()
	m, ok := s.markers[id]
	var fn func()
	visible := false
	if ok {
		fn = m.onClick
		visible = m.visible
	}
	s.mu.RUnlock()

	if !ok || !visible {
		return fmt.Errorf("mapview.Scene.Click: marker %s: %w", id, domain.ErrNotFound)
	}
	if fn != nil {
		fn()
	}
	return nil
}

// SetCenter moves the camera center.
func (s *Scene) SetCenter(c domain.Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.Center = c
}

// FitBounds fits the camera to b (x = longitude, y = latitude).
func (s *Scene) FitBounds(b orb.Bound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.Bounds = &Bounds{
		SouthWest: domain.Coordinate{Lat: b.Min.Y(), Lng: b.Min.X()},
		NorthEast: domain.Coordinate{Lat: b.Max.Y(), Lng: b.Max.X()},
	}
}

// OpenPopup anchors a popup with content to a visible marker.
func (s *Scene) OpenPopup(id uuid.UUID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.markers[id]
	if !ok || !m.visible {
		return fmt.Errorf("mapview.Scene.OpenPopup: marker %s: %w", id, domain.ErrNotFound)
	}
	m.popup = &content
	return nil
}

// ClosePopup closes the popup of a marker and drops its content.
func (s *Scene) ClosePopup(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.markers[id]
	if !ok || m.popup == nil {
		return fmt.Errorf("mapview.Scene.ClosePopup: popup for %s: %w", id, domain.ErrNotFound)
	}
	m.popup = nil
	return nil
}

// Popup returns the content of the popup open on a marker.
func (s *Scene) Popup(id uuid.UUID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.markers[id]
	if !ok || m.popup == nil {
		return "", false
	}
	return *m.popup, true
}

// Alert queues a blocking notification for the user.
func (s *Scene) Alert(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, Alert{ID: uuid.New(), Message: message, RaisedAt: time.Now().UTC()})
}

// Alerts returns the pending alerts, oldest first.
func (s *Scene) Alerts() []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// DismissAlert removes an acknowledged alert.
func (s *Scene) DismissAlert(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.alerts {
		if a.ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("mapview.Scene.DismissAlert: alert %s: %w", id, domain.ErrNotFound)
}

// Snapshot returns a copy of the scene. Markers are in creation order and
// carry their great-circle distance from the initial map center.
func (s *Scene) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cam := s.camera
	if s.camera.Bounds != nil {
		b := *s.camera.Bounds
		cam.Bounds = &b
	}

	origin := haversine.Coord{Lat: s.origin.Lat, Lon: s.origin.Lng}
	out := Snapshot{
		Camera:  cam,
		Markers: make([]Marker, 0, len(s.order)),
		Alerts:  make([]Alert, len(s.alerts)),
	}
	for _, id := range s.order {
		m := s.markers[id]
		_, km := haversine.Distance(origin, haversine.Coord{Lat: m.position.Lat, Lon: m.position.Lng})
		mv := Marker{
			ID:         id,
			Title:      m.title,
			Position:   m.position,
			Visible:    m.visible,
			Bouncing:   m.bouncing,
			DistanceKM: km,
		}
		if m.popup != nil {
			p := *m.popup
			mv.Popup = &p
		}
		out.Markers = append(out.Markers, mv)
	}
	copy(out.Alerts, s.alerts)
	return out
}
