// Package overlay owns the map rendering surface and reconciles the overlay
// sets drawn on it. All mutation of the surface funnels through the
// Controller; other components communicate through data only.
package overlay

import (
	"errors"
	"sync"

	"github.com/safence/sentinelguard/internal/lib/geo"
)

// Marker is a point overlay tracked by id.
type Marker struct {
	ID       string    `json:"id"`
	Position geo.Point `json:"position"`
	Color    string    `json:"color"`
	Label    string    `json:"label,omitempty"`
}

// ZoneRect is a rectangular overlay tracked by id.
type ZoneRect struct {
	ID          string     `json:"id"`
	Bounds      geo.Bounds `json:"bounds"`
	Color       string     `json:"color"`
	FillOpacity float64    `json:"fill_opacity"`
	Label       string     `json:"label,omitempty"`
}

// RouteLine is the route polyline overlay.
type RouteLine struct {
	Points  []geo.Point `json:"points"`
	Encoded string      `json:"encoded"`
	Color   string      `json:"color"`
	Dashed  bool        `json:"dashed"`
}

// ViewConfig fixes the initial viewport of the surface.
type ViewConfig struct {
	Center    geo.Point  `json:"center"`
	Zoom      int        `json:"zoom"`
	MaxBounds geo.Bounds `json:"max_bounds"`
}

// RenderSurface is the rendering backend the Controller draws on. Exactly
// one component, the Controller, is permitted to call these methods.
type RenderSurface interface {
	Init(view ViewConfig) error
	AddMarker(m Marker) error
	RemoveMarker(id string) error
	AddZone(z ZoneRect) error
	RemoveZone(id string) error
	SetUserMarker(m Marker) error
	ClearUserMarker() error
	SetRoute(line RouteLine) error
	ClearRoute() error
	FitBounds(b geo.Bounds) error
	Close() error
}

// ErrSurfaceClosed is returned by surface operations after Close.
var ErrSurfaceClosed = errors.New("render surface is closed")

// Snapshot is a serializable picture of everything currently drawn, in draw
// order. The dashboard renders it verbatim.
type Snapshot struct {
	View       ViewConfig  `json:"view"`
	Markers    []Marker    `json:"markers"`
	Zones      []ZoneRect  `json:"zones"`
	Route      *RouteLine  `json:"route,omitempty"`
	UserMarker *Marker     `json:"user_marker,omitempty"`
	Viewport   *geo.Bounds `json:"viewport,omitempty"`
}

// StateSurface is a RenderSurface that records overlay state in memory and
// serves snapshots of it. It is the production surface: the browser draws
// whatever the latest snapshot says.
type StateSurface struct {
	mu          sync.RWMutex
	initialized bool
	closed      bool
	view        ViewConfig
	markerOrder []string
	markers     map[string]Marker
	zoneOrder   []string
	zones       map[string]ZoneRect
	route       *RouteLine
	userMarker  *Marker
	viewport    *geo.Bounds
}

// NewStateSurface creates an empty, uninitialized surface.
func NewStateSurface() *StateSurface {
	return &StateSurface{
		markers: make(map[string]Marker),
		zones:   make(map[string]ZoneRect),
	}
}

// Init fixes the viewport. It may be called once.
func (s *StateSurface) Init(view ViewConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSurfaceClosed
	}
	if s.initialized {
		return errors.New("render surface already initialized")
	}
	s.initialized = true
	s.view = view
	return nil
}

func (s *StateSurface) guard() error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if !s.initialized {
		return errors.New("render surface not initialized")
	}
	return nil
}

// AddMarker draws a marker. Adding an id twice is an error; reconciliation
// removes before re-adding.
func (s *StateSurface) AddMarker(m Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if _, exists := s.markers[m.ID]; exists {
		return errors.New("marker already present: " + m.ID)
	}
	s.markers[m.ID] = m
	s.markerOrder = append(s.markerOrder, m.ID)
	return nil
}

// RemoveMarker erases a marker by id. Unknown ids are ignored.
func (s *StateSurface) RemoveMarker(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if _, exists := s.markers[id]; !exists {
		return nil
	}
	delete(s.markers, id)
	s.markerOrder = removeID(s.markerOrder, id)
	return nil
}

// AddZone draws a zone rectangle.
func (s *StateSurface) AddZone(z ZoneRect) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if _, exists := s.zones[z.ID]; exists {
		return errors.New("zone already present: " + z.ID)
	}
	s.zones[z.ID] = z
	s.zoneOrder = append(s.zoneOrder, z.ID)
	return nil
}

// RemoveZone erases a zone by id. Unknown ids are ignored.
func (s *StateSurface) RemoveZone(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if _, exists := s.zones[id]; !exists {
		return nil
	}
	delete(s.zones, id)
	s.zoneOrder = removeID(s.zoneOrder, id)
	return nil
}

// SetUserMarker replaces the single user-location marker.
func (s *StateSurface) SetUserMarker(m Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	s.userMarker = &m
	return nil
}

// ClearUserMarker removes the user-location marker if present.
func (s *StateSurface) ClearUserMarker() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	s.userMarker = nil
	return nil
}

// SetRoute replaces the route polyline.
func (s *StateSurface) SetRoute(line RouteLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	s.route = &line
	return nil
}

// ClearRoute removes the route polyline if present.
func (s *StateSurface) ClearRoute() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	s.route = nil
	s.viewport = nil
	return nil
}

// FitBounds records the viewport the renderer should zoom to.
func (s *StateSurface) FitBounds(b geo.Bounds) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	s.viewport = &b
	return nil
}

// Close tears the surface down. Further operations fail.
func (s *StateSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSurfaceClosed
	}
	s.closed = true
	s.markers = map[string]Marker{}
	s.zones = map[string]ZoneRect{}
	s.markerOrder = nil
	s.zoneOrder = nil
	s.route = nil
	s.userMarker = nil
	s.viewport = nil
	return nil
}

// Snapshot returns a copy of the current surface state.
func (s *StateSurface) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{View: s.view}
	snap.Markers = make([]Marker, 0, len(s.markerOrder))
	for _, id := range s.markerOrder {
		snap.Markers = append(snap.Markers, s.markers[id])
	}
	snap.Zones = make([]ZoneRect, 0, len(s.zoneOrder))
	for _, id := range s.zoneOrder {
		snap.Zones = append(snap.Zones, s.zones[id])
	}
	if s.route != nil {
		line := *s.route
		line.Points = append([]geo.Point(nil), s.route.Points...)
		snap.Route = &line
	}
	if s.userMarker != nil {
		m := *s.userMarker
		snap.UserMarker = &m
	}
	if s.viewport != nil {
		v := *s.viewport
		snap.Viewport = &v
	}
	return snap
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
