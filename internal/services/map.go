package services

import (
	"sync"

	"github.com/safence/sentinelguard/internal/bus"
	"github.com/safence/sentinelguard/internal/lib/filter"
	"github.com/safence/sentinelguard/internal/lib/geo"
	"github.com/safence/sentinelguard/internal/lib/overlay"
	"github.com/safence/sentinelguard/internal/metrics"
	"github.com/safence/sentinelguard/internal/registry"
)

// MapService glues the registry, the filter state and the overlay controller
// together. All overlay redraws go through here.
type MapService struct {
	registry   *registry.Registry
	surface    *overlay.StateSurface
	controller *overlay.Controller
	events     *bus.Bus

	mu      sync.RWMutex
	filters filter.State
}

// NewMapService creates the map service and draws the initial overlay sets
// with every filter enabled.
func NewMapService(reg *registry.Registry, surface *overlay.StateSurface, controller *overlay.Controller, events *bus.Bus) *MapService {
	s := &MapService{
		registry:   reg,
		surface:    surface,
		controller: controller,
		events:     events,
		filters:    filter.AllEnabled(),
	}
	s.redraw()
	return s
}

// Filters returns a copy of the current filter state.
func (s *MapService) Filters() filter.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyFilters(s.filters)
}

// SetFilters validates and applies a new filter state, then redraws the
// marker and zone overlays.
func (s *MapService) SetFilters(state filter.State) error {
	if err := state.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.filters = copyFilters(state)
	s.mu.Unlock()

	s.redraw()
	return nil
}

// FilteredDevices returns the devices matching the current filters.
func (s *MapService) FilteredDevices() []registry.Device {
	return filter.Devices(s.registry.Devices(), s.Filters())
}

// FilteredZones returns the zones matching the current filters.
func (s *MapService) FilteredZones() []registry.Zone {
	return filter.Zones(s.registry.Zones(), s.Filters())
}

// Refresh redraws the marker and zone overlays from the current registry
// state, for when device state changed without a filter change.
func (s *MapService) Refresh() {
	s.redraw()
}

func (s *MapService) redraw() {
	devices := s.FilteredDevices()
	zones := s.FilteredZones()

	s.controller.ReconcileMarkers(devices)
	s.controller.ReconcileZones(zones)
	metrics.DevicesRendered.Set(float64(len(devices)))

	s.publishState()
}

// ShowRoute draws a resolved route on the map.
func (s *MapService) ShowRoute(result RouteResult) {
	s.controller.ReconcileRoute(&overlay.RoutePath{
		Points:    result.PathPoints,
		Estimated: result.IsEstimated,
	})
	s.publishState()
}

// ClearRoute removes the route overlay.
func (s *MapService) ClearRoute() {
	s.controller.ReconcileRoute(nil)
	s.publishState()
}

// ShowUserLocation draws the user-location marker.
func (s *MapService) ShowUserLocation(position geo.Point) {
	s.controller.ReconcileUserMarker(&position)
	s.publishState()
}

// ClearUserLocation removes the user-location marker.
func (s *MapService) ClearUserLocation() {
	s.controller.ReconcileUserMarker(nil)
	s.publishState()
}

// Snapshot returns the current surface state for rendering.
func (s *MapService) Snapshot() overlay.Snapshot {
	return s.surface.Snapshot()
}

func (s *MapService) publishState() {
	if s.events != nil {
		s.events.Publish(bus.EventMapState, s.surface.Snapshot())
	}
}

func copyFilters(in filter.State) filter.State {
	out := filter.State{
		Statuses:   make(map[registry.DeviceStatus]bool, len(in.Statuses)),
		Types:      make(map[registry.DeviceType]bool, len(in.Types)),
		States:     append([]string(nil), in.States...),
		Districts:  append([]string(nil), in.Districts...),
		Categories: append([]string(nil), in.Categories...),
	}
	for k, v := range in.Statuses {
		out.Statuses[k] = v
	}
	for k, v := range in.Types {
		out.Types[k] = v
	}
	return out
}
