package overlay

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/safence/sentinelguard/internal/lib/geo"
	"github.com/safence/sentinelguard/internal/registry"
)

const (
	routeFitPadding = 0.15

	routeColor     = "#3B82F6"
	userColor      = "#8B5CF6"
	userMarkerID   = "user-location"
	userMarkerText = "Your Location"
)

// RoutePath is the route geometry handed to the controller for display.
type RoutePath struct {
	Points    []geo.Point
	Estimated bool
}

// Controller is the single owner of a RenderSurface. It reconciles the
// marker, zone, route and user-location overlays against the data it is
// given: remove what is drawn, redraw from the new set. Per-item surface
// failures are logged and skipped so one bad overlay cannot take down the
// rest of the map.
type Controller struct {
	mu      sync.Mutex
	surface RenderSurface
	logger  *slog.Logger

	markerIDs []string
	zoneIDs   []string
	hasRoute  bool
	hasUser   bool
}

// NewController initializes the surface and takes ownership of it. A nil or
// failing surface is fatal: without it there is no map.
func NewController(surface RenderSurface, view ViewConfig, logger *slog.Logger) (*Controller, error) {
	if surface == nil {
		return nil, errors.New("render surface is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := surface.Init(view); err != nil {
		return nil, fmt.Errorf("failed to initialize render surface: %w", err)
	}
	return &Controller{surface: surface, logger: logger}, nil
}

// ReconcileMarkers replaces the device marker overlay set with markers for
// the given devices, colored by status.
func (c *Controller) ReconcileMarkers(devices []registry.Device) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range c.markerIDs {
		if err := c.surface.RemoveMarker(id); err != nil {
			c.logger.Warn("failed to remove marker", "id", id, "error", err)
		}
	}
	c.markerIDs = c.markerIDs[:0]

	for _, d := range devices {
		m := Marker{
			ID:       d.ID,
			Position: d.Position,
			Color:    d.Status.MarkerColor(),
			Label:    d.Name,
		}
		if err := c.surface.AddMarker(m); err != nil {
			c.logger.Warn("failed to add marker", "id", d.ID, "error", err)
			continue
		}
		c.markerIDs = append(c.markerIDs, d.ID)
	}
}

// ReconcileZones replaces the zone overlay set.
func (c *Controller) ReconcileZones(zones []registry.Zone) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range c.zoneIDs {
		if err := c.surface.RemoveZone(id); err != nil {
			c.logger.Warn("failed to remove zone", "id", id, "error", err)
		}
	}
	c.zoneIDs = c.zoneIDs[:0]

	for _, z := range zones {
		rect := ZoneRect{
			ID:          z.ID,
			Bounds:      z.Bounds,
			Color:       z.Color,
			FillOpacity: z.FillOpacity,
			Label:       z.Name,
		}
		if err := c.surface.AddZone(rect); err != nil {
			c.logger.Warn("failed to add zone", "id", z.ID, "error", err)
			continue
		}
		c.zoneIDs = append(c.zoneIDs, z.ID)
	}
}

// ReconcileRoute replaces the route polyline. A nil path clears it. When a
// route is drawn the viewport is fitted to the route's bounding box with a
// proportional margin; estimated routes render dashed.
func (c *Controller) ReconcileRoute(path *RoutePath) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasRoute {
		if err := c.surface.ClearRoute(); err != nil {
			c.logger.Warn("failed to clear route", "error", err)
		}
		c.hasRoute = false
	}
	if path == nil || len(path.Points) == 0 {
		return
	}

	line := RouteLine{
		Points: path.Points,
		Color:  routeColor,
		Dashed: path.Estimated,
	}
	line.Encoded = geo.EncodePath(path.Points)
	if err := c.surface.SetRoute(line); err != nil {
		c.logger.Warn("failed to draw route", "error", err)
		return
	}
	c.hasRoute = true

	bounds, err := geo.BoundsOf(path.Points)
	if err != nil {
		c.logger.Warn("failed to compute route bounds", "error", err)
		return
	}
	if err := c.surface.FitBounds(bounds.Pad(routeFitPadding)); err != nil {
		c.logger.Warn("failed to fit route bounds", "error", err)
	}
}

// ReconcileUserMarker replaces the user-location marker. A nil position
// clears it.
func (c *Controller) ReconcileUserMarker(position *geo.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if position == nil {
		if c.hasUser {
			if err := c.surface.ClearUserMarker(); err != nil {
				c.logger.Warn("failed to clear user marker", "error", err)
			}
			c.hasUser = false
		}
		return
	}

	m := Marker{
		ID:       userMarkerID,
		Position: *position,
		Color:    userColor,
		Label:    userMarkerText,
	}
	if err := c.surface.SetUserMarker(m); err != nil {
		c.logger.Warn("failed to set user marker", "error", err)
		return
	}
	c.hasUser = true
}

// Close tears the surface down. The controller must not be used afterwards.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.surface.Close()
}
