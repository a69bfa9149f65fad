package overlay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safence/sentinelguard/internal/lib/geo"
	"github.com/safence/sentinelguard/internal/registry"
)

func testView() ViewConfig {
	return ViewConfig{
		Center: geo.Point{Latitude: 13.0827, Longitude: 80.2707},
		Zoom:   6,
		MaxBounds: geo.Bounds{
			SouthWest: geo.Point{Latitude: 8, Longitude: 74},
			NorthEast: geo.Point{Latitude: 20, Longitude: 84},
		},
	}
}

func testDevices() []registry.Device {
	return []registry.Device{
		{ID: "1", Name: "Chennai Central Station", Position: geo.Point{Latitude: 13.0843, Longitude: 80.2705}, Status: registry.StatusSafe, Type: registry.TypeCamera},
		{ID: "2", Name: "Coimbatore Industrial Area", Position: geo.Point{Latitude: 11.0168, Longitude: 76.9558}, Status: registry.StatusAlert, Type: registry.TypeSensorNode},
	}
}

func newTestController(t *testing.T) (*Controller, *StateSurface) {
	t.Helper()
	surface := NewStateSurface()
	c, err := NewController(surface, testView(), nil)
	require.NoError(t, err)
	return c, surface
}

func TestNewControllerRequiresSurface(t *testing.T) {
	_, err := NewController(nil, testView(), nil)
	assert.ErrorContains(t, err, "render surface is required")
}

func TestNewControllerInitFailure(t *testing.T) {
	surface := NewStateSurface()
	require.NoError(t, surface.Close())

	_, err := NewController(surface, testView(), nil)
	assert.ErrorIs(t, err, ErrSurfaceClosed)
}

func TestReconcileMarkers(t *testing.T) {
	c, surface := newTestController(t)

	c.ReconcileMarkers(testDevices())

	snap := surface.Snapshot()
	require.Len(t, snap.Markers, 2)
	assert.Equal(t, "1", snap.Markers[0].ID)
	assert.Equal(t, "#10B981", snap.Markers[0].Color)
	assert.Equal(t, "#EF4444", snap.Markers[1].Color)
}

func TestReconcileMarkersIdempotent(t *testing.T) {
	c, surface := newTestController(t)

	c.ReconcileMarkers(testDevices())
	c.ReconcileMarkers(testDevices())

	snap := surface.Snapshot()
	assert.Len(t, snap.Markers, 2, "reconciling twice must not duplicate markers")
}

func TestReconcileMarkersShrinks(t *testing.T) {
	c, surface := newTestController(t)

	c.ReconcileMarkers(testDevices())
	c.ReconcileMarkers(testDevices()[:1])

	snap := surface.Snapshot()
	require.Len(t, snap.Markers, 1)
	assert.Equal(t, "1", snap.Markers[0].ID)
}

func TestReconcileZones(t *testing.T) {
	c, surface := newTestController(t)

	zones := []registry.Zone{
		{ID: "red-zone-1", Name: "Chennai High Security Zone", Type: registry.StatusAlert, Color: "#EF4444", FillOpacity: 0.2,
			Bounds: geo.Bounds{SouthWest: geo.Point{Latitude: 13.04, Longitude: 80.24}, NorthEast: geo.Point{Latitude: 13.12, Longitude: 80.30}}},
	}
	c.ReconcileZones(zones)
	c.ReconcileZones(nil)

	snap := surface.Snapshot()
	assert.Empty(t, snap.Zones)
	assert.Empty(t, snap.Markers)
}

func TestReconcileRoute(t *testing.T) {
	c, surface := newTestController(t)

	path := &RoutePath{Points: []geo.Point{
		{Latitude: 13.0843, Longitude: 80.2705},
		{Latitude: 13.36, Longitude: 79.83},
		{Latitude: 13.6288, Longitude: 79.4192},
	}}
	c.ReconcileRoute(path)

	snap := surface.Snapshot()
	require.NotNil(t, snap.Route)
	assert.Len(t, snap.Route.Points, 3)
	assert.False(t, snap.Route.Dashed)
	assert.NotEmpty(t, snap.Route.Encoded)

	require.NotNil(t, snap.Viewport, "drawing a route must fit the viewport")
	span := 13.6288 - 13.0843
	assert.InDelta(t, 13.0843-span*0.15, snap.Viewport.SouthWest.Latitude, 1e-9)
	assert.InDelta(t, 13.6288+span*0.15, snap.Viewport.NorthEast.Latitude, 1e-9)
}

func TestReconcileRouteEstimatedIsDashed(t *testing.T) {
	c, surface := newTestController(t)

	c.ReconcileRoute(&RoutePath{
		Points:    []geo.Point{{Latitude: 13, Longitude: 80}, {Latitude: 14, Longitude: 79}},
		Estimated: true,
	})

	snap := surface.Snapshot()
	require.NotNil(t, snap.Route)
	assert.True(t, snap.Route.Dashed)
}

func TestReconcileRouteClear(t *testing.T) {
	c, surface := newTestController(t)

	c.ReconcileRoute(&RoutePath{Points: []geo.Point{{Latitude: 13, Longitude: 80}, {Latitude: 14, Longitude: 79}}})
	c.ReconcileRoute(nil)

	snap := surface.Snapshot()
	assert.Nil(t, snap.Route, "clearing must leave zero route polylines")
	assert.Nil(t, snap.Viewport)
}

func TestReconcileUserMarker(t *testing.T) {
	c, surface := newTestController(t)

	first := geo.Point{Latitude: 13.05, Longitude: 80.25}
	second := geo.Point{Latitude: 13.06, Longitude: 80.26}
	c.ReconcileUserMarker(&first)
	c.ReconcileUserMarker(&second)

	snap := surface.Snapshot()
	require.NotNil(t, snap.UserMarker)
	assert.Equal(t, second, snap.UserMarker.Position)

	c.ReconcileUserMarker(nil)
	assert.Nil(t, surface.Snapshot().UserMarker)
}

// failingSurface wraps a StateSurface and fails AddMarker for one id.
type failingSurface struct {
	*StateSurface
	failID string
}

func (f *failingSurface) AddMarker(m Marker) error {
	if m.ID == f.failID {
		return errors.New("renderer rejected marker")
	}
	return f.StateSurface.AddMarker(m)
}

func TestReconcileMarkersSkipsFailures(t *testing.T) {
	inner := NewStateSurface()
	surface := &failingSurface{StateSurface: inner, failID: "1"}
	c, err := NewController(surface, testView(), nil)
	require.NoError(t, err)

	c.ReconcileMarkers(testDevices())

	snap := inner.Snapshot()
	require.Len(t, snap.Markers, 1, "one bad overlay must not block the rest")
	assert.Equal(t, "2", snap.Markers[0].ID)

	// The failed id must not be tracked as drawn.
	c.ReconcileMarkers(nil)
	assert.Empty(t, inner.Snapshot().Markers)
}
