// Package service contains the application state of the map browser.
// BrowserService owns the current query, drives marker visibility from it and
// runs venue lookups for clicked markers. It depends on interfaces for the map
// scene and the venue provider so both can be replaced in tests.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/neighborhood-map/internal/catalog"
	"github.com/pkordes/neighborhood-map/internal/domain"
	"github.com/pkordes/neighborhood-map/internal/filter"
	"github.com/pkordes/neighborhood-map/internal/mapview"
	"github.com/pkordes/neighborhood-map/internal/markers"
)

// Lookuper fetches venue metadata for a marker. Name is the provider name
// used in the failure alert.
type Lookuper interface {
	Name() string
	Lookup(ctx context.Context, coord domain.Coordinate, name string) (domain.VenueSummary, error)
}

// Scene is the map surface the service draws on.
// *mapview.Scene is the production implementation.
type Scene interface {
	markers.View
	Click(id uuid.UUID) error
	OpenPopup(id uuid.UUID, content string) error
	ClosePopup(id uuid.UUID) error
	Alert(message string)
	DismissAlert(id uuid.UUID) error
	Snapshot() mapview.Snapshot
}

// Options tunes a BrowserService. Zero values select the defaults.
type Options struct {
	// BounceDuration defaults to markers.DefaultBounceDuration.
	BounceDuration time.Duration
	// LookupTimeout bounds each venue lookup. Zero means no timeout.
	LookupTimeout time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// View is what the page renders: the scene plus the query that shaped it.
type View struct {
	Query string          `json:"query"`
	State domain.AppState `json:"state"`
	mapview.Snapshot
}

type lookupTask struct {
	seq    uint64
	cancel context.CancelFunc
}

// BrowserService is the application state object. It is safe for concurrent use.
type BrowserService struct {
	catalog *catalog.Catalog
	scene   Scene
	markers *markers.Sync
	venues  Lookuper
	timeout time.Duration
	log     *slog.Logger

	mu          sync.Mutex
	query       string
	initialized bool
	closed      bool
	pending     map[uuid.UUID]*lookupTask
	seq         uint64
	wg          sync.WaitGroup
}

// NewBrowserService wires a BrowserService over the catalog, scene and venue provider.
// Call Init once the scene is ready to draw.
func NewBrowserService(cat *catalog.Catalog, scene Scene, venues Lookuper, opts Options) *BrowserService {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &BrowserService{
		catalog: cat,
		scene:   scene,
		markers: markers.NewSync(scene, opts.BounceDuration),
		venues:  venues,
		timeout: opts.LookupTimeout,
		log:     log,
		pending: make(map[uuid.UUID]*lookupTask),
	}
}

// Init creates a marker for every place matching the current query and fits
// the camera to all of them. It moves the browser out of the uninitialized state.
func (s *BrowserService) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return fmt.Errorf("service.BrowserService.Init: %w", markers.ErrAlreadyPopulated)
	}

	visible := filter.Compute(s.catalog.Places(), s.query)
	handles, err := s.markers.Populate(visible, s.startLookup)
	if err != nil {
		return fmt.Errorf("service.BrowserService.Init: %w", err)
	}
	s.markers.FitToMarkers()
	s.initialized = true

	s.log.Info("map populated", "markers", len(handles), "query", s.query)
	return nil
}

// SetQuery replaces the filter text and synchronously shows or hides markers
// to match it.
func (s *BrowserService) SetQuery(q string) View {
	s.mu.Lock()
	s.query = q
	visible := filter.Compute(s.catalog.Places(), q)
	changed := s.markers.Reconcile(visible)
	s.mu.Unlock()

	s.log.Debug("query changed", "query", q, "visible", len(visible), "changed", changed)
	return s.View()
}

// Query returns the current filter text.
func (s *BrowserService) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// State returns the application state derived from initialization and the query.
func (s *BrowserService) State() domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *BrowserService) stateLocked() domain.AppState {
	switch {
	case !s.initialized:
		return domain.StateUninitialized
	case s.query == "":
		return domain.StatePopulated
	default:
		return domain.StateFiltered
	}
}

// Visible returns the places matching the current query, in catalog order.
func (s *BrowserService) Visible() []domain.Place {
	return filter.Compute(s.catalog.Places(), s.Query())
}

// Places returns the places matching q without changing the current query.
func (s *BrowserService) Places(q string) []domain.Place {
	return filter.Compute(s.catalog.Places(), q)
}

// Markers returns the marker handles in catalog order.
func (s *BrowserService) Markers() []markers.Handle {
	return s.markers.Handles()
}

// View returns the current query, state and scene snapshot.
func (s *BrowserService) View() View {
	s.mu.Lock()
	q, st := s.query, s.stateLocked()
	s.mu.Unlock()

	return View{Query: q, State: st, Snapshot: s.scene.Snapshot()}
}

// Click forwards a marker click to the scene, which starts a venue lookup
// through the listener registered in Init. Hidden and unknown markers
// return domain.ErrNotFound.
func (s *BrowserService) Click(id uuid.UUID) error {
	if err := s.scene.Click(id); err != nil {
		return fmt.Errorf("service.BrowserService.Click: %w", err)
	}
	return nil
}

// ClosePopup closes the popup on a marker, discarding its lookup result.
func (s *BrowserService) ClosePopup(id uuid.UUID) error {
	if err := s.scene.ClosePopup(id); err != nil {
		return fmt.Errorf("service.BrowserService.ClosePopup: %w", err)
	}
	return nil
}

// DismissAlert acknowledges a pending alert.
func (s *BrowserService) DismissAlert(id uuid.UUID) error {
	if err := s.scene.DismissAlert(id); err != nil {
		return fmt.Errorf("service.BrowserService.DismissAlert: %w", err)
	}
	return nil
}

// Close cancels every outstanding lookup and waits for them to return.
// Results of cancelled lookups are discarded.
func (s *BrowserService) Close() {
	s.mu.Lock()
	s.closed = true
	for id, t := range s.pending {
		t.cancel()
		delete(s.pending, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// startLookup is the click listener of every marker. A click on a marker with
// a lookup still in flight cancels that lookup; only the latest one for a
// marker may open a popup or raise an alert.
func (s *BrowserService) startLookup(h markers.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if prev, ok := s.pending[h.ID]; ok {
		prev.cancel()
		s.log.Debug("lookup superseded", "marker", h.ID, "title", h.Place.Name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if s.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, s.timeout)
		parent := cancel
		cancel = func() {
			cancelTimeout()
			parent()
		}
	}

	s.seq++
	task := &lookupTask{seq: s.seq, cancel: cancel}
	s.pending[h.ID] = task

	s.wg.Add(1)
	go s.runLookup(ctx, h, task)
}

func (s *BrowserService) runLookup(ctx context.Context, h markers.Handle, task *lookupTask) {
	defer s.wg.Done()
	defer task.cancel()

	start := time.Now()
	summary, err := s.venues.Lookup(ctx, h.Place.Coordinate, h.Place.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.pending[h.ID]; !ok || cur.seq != task.seq {
		return
	}
	delete(s.pending, h.ID)

	attrs := []any{
		"marker", h.ID,
		"title", h.Place.Name,
		"provider", s.venues.Name(),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		s.log.Warn("venue lookup failed", append(attrs, "error", err)...)
		s.scene.Alert(fmt.Sprintf("Failed loading %s data for %s", s.venues.Name(), h.Place.Name))
		return
	}

	if err := s.scene.OpenPopup(h.ID, summary.Content()); err != nil {
		// The marker was hidden while the lookup was in flight.
		s.log.Info("venue popup dropped", append(attrs, "error", err)...)
		return
	}
	if err := s.markers.Bounce(h.ID); err != nil {
		s.log.Warn("marker bounce failed", append(attrs, "error", err)...)
	}
	s.log.Info("venue lookup", attrs...)
}
