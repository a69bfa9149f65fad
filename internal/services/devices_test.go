package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safence/sentinelguard/internal/config"
	"github.com/safence/sentinelguard/internal/lib/alerts"
	"github.com/safence/sentinelguard/internal/registry"
)

func newTestDeviceService(t *testing.T) *DeviceService {
	t.Helper()
	reg, err := registry.New(config.DefaultDevices(), config.DefaultZones())
	require.NoError(t, err)
	return NewDeviceService(reg, nil, NewLogService(nil))
}

func TestDevicePatch(t *testing.T) {
	svc := newTestDeviceService(t)

	status := registry.StatusAlert
	device, err := svc.Patch("5", registry.DevicePatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, registry.StatusAlert, device.Status)

	got, ok := svc.Get("5")
	require.True(t, ok)
	assert.Equal(t, registry.StatusAlert, got.Status)

	_, err = svc.Patch("nope", registry.DevicePatch{})
	assert.ErrorContains(t, err, "device not found")
}

func TestSummarize(t *testing.T) {
	svc := newTestDeviceService(t)
	alertSvc := NewAlertService(nil, nil, nil, nil)
	alertSvc.Raise(context.Background(), alerts.Alert{DeviceID: "3", Message: "x", Severity: alerts.SeverityCritical})

	summary := svc.Summarize(alertSvc)
	assert.Equal(t, 17, summary.TotalDevices)
	assert.Equal(t, 8, summary.ZoneCount)
	assert.Equal(t, 1, summary.ActiveAlerts)
	assert.Equal(t, 2, summary.ByStatus[registry.StatusAlert])
	assert.Equal(t, 6, summary.ByType[registry.TypeSensorNode])
}

func TestLogServiceRing(t *testing.T) {
	logs := NewLogService(nil)
	for i := 0; i < logCapacity+25; i++ {
		logs.Append("info", "test", "entry")
	}

	all := logs.Recent(0)
	assert.Len(t, all, logCapacity)

	recent := logs.Recent(10)
	assert.Len(t, recent, 10)
	assert.True(t, !recent[0].Timestamp.Before(recent[9].Timestamp), "newest first")
}
