package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safence/sentinelguard/internal/lib/geo"
	"github.com/safence/sentinelguard/internal/registry"
)

func testDevices() []registry.Device {
	return []registry.Device{
		{ID: "1", Name: "Chennai Central Station", Status: registry.StatusSafe, Type: registry.TypeCamera, State: "Tamil Nadu", District: "Chennai", Category: "transport", Position: geo.Point{Latitude: 13.0843, Longitude: 80.2705}},
		{ID: "2", Name: "Coimbatore Industrial Area", Status: registry.StatusWarning, Type: registry.TypeSensorNode, State: "Tamil Nadu", District: "Coimbatore", Category: "industrial", Position: geo.Point{Latitude: 11.0168, Longitude: 76.9558}},
		{ID: "3", Name: "Madurai Temple Complex", Status: registry.StatusAlert, Type: registry.TypeCamera, State: "Tamil Nadu", District: "Madurai", Category: "heritage", Position: geo.Point{Latitude: 9.9252, Longitude: 78.1198}},
		{ID: "5", Name: "Bangalore Tech Park", Status: registry.StatusSafe, Type: registry.TypeSensorNode, State: "Karnataka", District: "Bangalore", Category: "commercial", Position: geo.Point{Latitude: 12.9716, Longitude: 77.5946}},
		{ID: "8", Name: "Dharwad University", Status: registry.StatusOffline, Type: registry.TypeSensorNode, State: "Karnataka", District: "Dharwad", Category: "commercial", Position: geo.Point{Latitude: 15.4589, Longitude: 75.0078}},
		{ID: "13", Name: "Warangal Fort", Status: registry.StatusMaintenance, Type: registry.TypeCamera, State: "Telangana", District: "Warangal", Category: "heritage", Position: geo.Point{Latitude: 18.0074, Longitude: 79.5941}},
	}
}

func testZones() []registry.Zone {
	return []registry.Zone{
		{ID: "red-zone-1", Type: registry.StatusAlert},
		{ID: "orange-zone-1", Type: registry.StatusWarning},
		{ID: "green-zone-1", Type: registry.StatusSafe},
	}
}

func TestDevicesNoRestriction(t *testing.T) {
	devices := testDevices()
	got := Devices(devices, AllEnabled())

	require.Len(t, got, len(devices))
	for i := range devices {
		assert.Equal(t, devices[i].ID, got[i].ID, "input order must be preserved")
	}
}

func TestDevicesStatusFlag(t *testing.T) {
	s := AllEnabled()
	s.Statuses[registry.StatusSafe] = false

	got := Devices(testDevices(), s)
	require.Len(t, got, 4)
	for _, d := range got {
		assert.NotEqual(t, registry.StatusSafe, d.Status)
	}
}

func TestDevicesTypeFlag(t *testing.T) {
	s := AllEnabled()
	s.Types[registry.TypeSensorNode] = false

	got := Devices(testDevices(), s)
	require.Len(t, got, 3)
	for _, d := range got {
		assert.NotEqual(t, registry.TypeSensorNode, d.Type)
	}
}

func TestDevicesStateConstraint(t *testing.T) {
	s := AllEnabled()
	s.States = []string{"Tamil Nadu"}

	got := Devices(testDevices(), s)
	require.Len(t, got, 3)
	for _, d := range got {
		assert.Equal(t, "Tamil Nadu", d.State)
	}

	s.States = []string{"Goa"}
	assert.Empty(t, Devices(testDevices(), s))
}

func TestDevicesEmptySetMeansAll(t *testing.T) {
	s := AllEnabled()
	s.States = nil
	s.Districts = []string{}
	s.Categories = nil

	got := Devices(testDevices(), s)
	assert.Len(t, got, len(testDevices()), "empty constraint sets must not restrict")
}

func TestDevicesCombinedConstraints(t *testing.T) {
	s := AllEnabled()
	s.States = []string{"Karnataka"}
	s.Categories = []string{"commercial"}
	s.Statuses[registry.StatusOffline] = false

	got := Devices(testDevices(), s)
	require.Len(t, got, 1)
	assert.Equal(t, "5", got[0].ID)
}

func TestDevicesIdempotent(t *testing.T) {
	s := AllEnabled()
	s.Statuses[registry.StatusSafe] = false
	s.Districts = []string{"Coimbatore", "Madurai", "Warangal"}

	once := Devices(testDevices(), s)
	twice := Devices(once, s)
	assert.Equal(t, once, twice)
}

func TestZonesByTypeFlag(t *testing.T) {
	s := AllEnabled()
	s.Statuses[registry.StatusAlert] = false
	// Location constraints must not apply to zones.
	s.States = []string{"Tamil Nadu"}

	got := Zones(testZones(), s)
	require.Len(t, got, 2)
	assert.Equal(t, "orange-zone-1", got[0].ID)
	assert.Equal(t, "green-zone-1", got[1].ID)
}

func TestStateValidate(t *testing.T) {
	require.NoError(t, AllEnabled().Validate())

	missing := AllEnabled()
	delete(missing.Statuses, registry.StatusOffline)
	assert.ErrorContains(t, missing.Validate(), "status flags")

	extra := AllEnabled()
	extra.Types["drone"] = true
	assert.ErrorContains(t, extra.Validate(), "type flags")
}
