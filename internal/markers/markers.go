// Package markers keeps the map's marker set in step with the visible places.
//
// Markers are created once, for the initial visible set, and from then on are
// only shown or hidden: filtering never creates or destroys a marker, so the
// handles returned by Populate stay valid for the life of the process.
package markers

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/pkordes/neighborhood-map/internal/domain"
)

// DefaultBounceDuration is how long a marker bounces before the animation is cleared.
const DefaultBounceDuration = 2 * time.Second

// ErrAlreadyPopulated is returned by Populate when markers already exist.
var ErrAlreadyPopulated = errors.New("markers already populated")

// View is the subset of the map surface that Sync drives.
// Defining it here (in the consumer package) lets tests substitute a recorder.
type View interface {
	CreateMarker(id uuid.UUID, title string, at domain.Coordinate) error
	SetVisible(id uuid.UUID, visible bool)
	SetBouncing(id uuid.UUID, bouncing bool)
	OnClick(id uuid.UUID, fn func())
	SetCenter(c domain.Coordinate)
	FitBounds(b orb.Bound)
}

// Handle associates a marker on the map with the place it represents.
type Handle struct {
	ID    uuid.UUID
	Place domain.Place
}

// Sync owns the marker handles and reconciles their visibility.
type Sync struct {
	view   View
	bounce time.Duration

	mu        sync.Mutex
	populated bool
	handles   []Handle
	shown     map[uuid.UUID]bool
	bouncing  map[uuid.UUID]uint64
	bounceSeq uint64
}

// NewSync constructs a Sync drawing on view. A non-positive bounce falls back
// to DefaultBounceDuration.
func NewSync(view View, bounce time.Duration) *Sync {
	if bounce <= 0 {
		bounce = DefaultBounceDuration
	}
	return &Sync{
		view:     view,
		bounce:   bounce,
		shown:    make(map[uuid.UUID]bool),
		bouncing: make(map[uuid.UUID]uint64),
	}
}

// Populate creates one marker per place, bounces each once and registers
// onClick as its click listener. It may only be called once.
func (s *Sync) Populate(visible []domain.Place, onClick func(Handle)) ([]Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.populated {
		return nil, ErrAlreadyPopulated
	}

	handles := make([]Handle, 0, len(visible))
	for _, p := range visible {
		h := Handle{ID: uuid.New(), Place: p}
		if err := s.view.CreateMarker(h.ID, p.Name, p.Coordinate); err != nil {
			return nil, fmt.Errorf("markers.Sync.Populate: %q: %w", p.Name, err)
		}
		handles = append(handles, h)
		s.shown[h.ID] = true
		if onClick != nil {
			s.view.OnClick(h.ID, func() { onClick(h) })
		}
	}
	s.handles = handles
	s.populated = true

	for _, h := range handles {
		s.bounceLocked(h.ID)
	}

	out := make([]Handle, len(handles))
	copy(out, handles)
	return out, nil
}

// Reconcile shows every marker whose place is in visible and hides the rest.
// Only changes are pushed to the view. It returns the number of markers whose
// visibility changed, so a repeated call with the same set returns 0.
func (s *Sync) Reconcile(visible []domain.Place) int {
	want := make(map[domain.Place]struct{}, len(visible))
	for _, p := range visible {
		want[p] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, h := range s.handles {
		_, show := want[h.Place]
		if s.shown[h.ID] == show {
			continue
		}
		s.view.SetVisible(h.ID, show)
		s.shown[h.ID] = show
		changed++
	}
	return changed
}

// FitToMarkers centers the camera on the union bound of every marker and
// fits the view to it. It does nothing before Populate.
func (s *Sync) FitToMarkers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.handles) == 0 {
		return
	}

	bound := toPoint(s.handles[0].Place.Coordinate).Bound()
	for _, h := range s.handles[1:] {
		bound = bound.Extend(toPoint(h.Place.Coordinate))
	}

	center := bound.Center()
	s.view.SetCenter(domain.Coordinate{Lat: center.Y(), Lng: center.X()})
	s.view.FitBounds(bound)
}

// Bounce starts a one-shot bounce on the marker. A bounce already running on
// the same marker is extended rather than doubled.
func (s *Sync) Bounce(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shown[id]; !ok {
		return fmt.Errorf("markers.Sync.Bounce: marker %s: %w", id, domain.ErrNotFound)
	}
	s.bounceLocked(id)
	return nil
}

func (s *Sync) bounceLocked(id uuid.UUID) {
	s.bounceSeq++
	seq := s.bounceSeq
	s.bouncing[id] = seq
	s.view.SetBouncing(id, true)

	time.AfterFunc(s.bounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// A later bounce on the same marker owns the animation now.
		if s.bouncing[id] != seq {
			return
		}
		delete(s.bouncing, id)
		s.view.SetBouncing(id, false)
	})
}

// Handles returns the marker handles in catalog order.
func (s *Sync) Handles() []Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Handle, len(s.handles))
	copy(out, s.handles)
	return out
}

// Lookup returns the handle for id.
func (s *Sync) Lookup(id uuid.UUID) (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range s.handles {
		if h.ID == id {
			return h, true
		}
	}
	return Handle{}, false
}

// Shown returns the IDs of the markers currently shown, in catalog order.
func (s *Sync) Shown() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []uuid.UUID
	for _, h := range s.handles {
		if s.shown[h.ID] {
			out = append(out, h.ID)
		}
	}
	return out
}

// toPoint converts a coordinate to an orb point (x = longitude, y = latitude).
func toPoint(c domain.Coordinate) orb.Point {
	return orb.Point{c.Lng, c.Lat}
}
