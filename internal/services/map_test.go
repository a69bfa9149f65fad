package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safence/sentinelguard/internal/config"
	"github.com/safence/sentinelguard/internal/lib/filter"
	"github.com/safence/sentinelguard/internal/lib/geo"
	"github.com/safence/sentinelguard/internal/lib/overlay"
	"github.com/safence/sentinelguard/internal/registry"
)

func newTestMapService(t *testing.T) (*MapService, *overlay.StateSurface) {
	t.Helper()

	reg, err := registry.New(config.DefaultDevices(), config.DefaultZones())
	require.NoError(t, err)

	surface := overlay.NewStateSurface()
	controller, err := overlay.NewController(surface, overlay.ViewConfig{
		Center: geo.Point{Latitude: 13.0827, Longitude: 80.2707},
		Zoom:   6,
	}, nil)
	require.NoError(t, err)

	return NewMapService(reg, surface, controller, nil), surface
}

func TestMapServiceInitialDraw(t *testing.T) {
	_, surface := newTestMapService(t)

	snap := surface.Snapshot()
	assert.Len(t, snap.Markers, 17)
	assert.Len(t, snap.Zones, 8)
}

func TestMapServiceSetFilters(t *testing.T) {
	svc, surface := newTestMapService(t)

	filters := filter.AllEnabled()
	filters.States = []string{"Tamil Nadu"}
	require.NoError(t, svc.SetFilters(filters))

	snap := surface.Snapshot()
	assert.Len(t, snap.Markers, 4)
	// Zones ignore location constraints.
	assert.Len(t, snap.Zones, 8)

	filters.Statuses[registry.StatusSafe] = false
	require.NoError(t, svc.SetFilters(filters))
	snap = surface.Snapshot()
	assert.Len(t, snap.Markers, 2)
	assert.Len(t, snap.Zones, 5)
}

func TestMapServiceRejectsInvalidFilters(t *testing.T) {
	svc, _ := newTestMapService(t)

	bad := filter.AllEnabled()
	delete(bad.Statuses, registry.StatusOffline)
	assert.Error(t, svc.SetFilters(bad))

	// State is unchanged after a rejected update.
	assert.NoError(t, svc.Filters().Validate())
}

func TestMapServiceFiltersCopySemantics(t *testing.T) {
	svc, _ := newTestMapService(t)

	got := svc.Filters()
	got.Statuses[registry.StatusSafe] = false

	assert.True(t, svc.Filters().Statuses[registry.StatusSafe], "mutating the returned state must not affect the service")
}

func TestMapServiceRouteOverlay(t *testing.T) {
	svc, surface := newTestMapService(t)

	svc.ShowRoute(RouteResult{
		PathPoints:  []geo.Point{chennai, tirupati},
		IsEstimated: true,
	})

	snap := surface.Snapshot()
	require.NotNil(t, snap.Route)
	assert.True(t, snap.Route.Dashed)
	require.NotNil(t, snap.Viewport)

	svc.ClearRoute()
	assert.Nil(t, surface.Snapshot().Route)
}

func TestMapServiceUserLocation(t *testing.T) {
	svc, surface := newTestMapService(t)

	svc.ShowUserLocation(geo.Point{Latitude: 13.05, Longitude: 80.25})
	require.NotNil(t, surface.Snapshot().UserMarker)

	svc.ClearUserLocation()
	assert.Nil(t, surface.Snapshot().UserMarker)
}
