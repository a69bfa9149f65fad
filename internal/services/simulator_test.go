package services

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safence/sentinelguard/internal/config"
	"github.com/safence/sentinelguard/internal/registry"
)

func newTestSimulator(t *testing.T) (*Simulator, *registry.Registry) {
	t.Helper()

	reg, err := registry.New(config.DefaultDevices(), config.DefaultZones())
	require.NoError(t, err)

	logs := NewLogService(nil)
	devices := NewDeviceService(reg, nil, logs)
	alertSvc := NewAlertService(nil, nil, logs, nil)

	sim := NewSimulator(reg, devices, alertSvc, nil, nil)
	sim.rng = rand.New(rand.NewSource(1))
	return sim, reg
}

func TestSimulatorTickUpdatesTelemetry(t *testing.T) {
	sim, reg := newTestSimulator(t)

	sim.tick(context.Background())

	for _, d := range reg.Devices() {
		switch d.Status {
		case registry.StatusOffline, registry.StatusMaintenance:
			assert.True(t, d.LastHeartbeat.IsZero(), "dormant device %s must not report", d.ID)
		default:
			require.False(t, d.LastHeartbeat.IsZero(), "active device %s must report", d.ID)
			assert.GreaterOrEqual(t, d.Voltage, 11.0)
			assert.LessOrEqual(t, d.Voltage, 13.0)
		}
	}
}

func TestSimulatorStartStop(t *testing.T) {
	sim, reg := newTestSimulator(t)

	sim.Start(context.Background(), 10*time.Millisecond)
	sim.Start(context.Background(), 10*time.Millisecond) // second start is a no-op

	assert.Eventually(t, func() bool {
		for _, d := range reg.Devices() {
			if !d.LastHeartbeat.IsZero() {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	sim.Stop()
	sim.Stop() // second stop is a no-op
}

func TestSimulatorStopsOnContextCancel(t *testing.T) {
	sim, _ := newTestSimulator(t)

	ctx, cancel := context.WithCancel(context.Background())
	sim.Start(ctx, 10*time.Millisecond)
	cancel()

	// The loop exits on its own; Stop afterwards must still be safe.
	time.Sleep(50 * time.Millisecond)
	sim.Stop()
}

func TestNextStatusTransitions(t *testing.T) {
	sim, _ := newTestSimulator(t)

	for i := 0; i < 200; i++ {
		switch next := sim.nextStatus(registry.StatusSafe); next {
		case registry.StatusWarning, registry.StatusAlert:
		default:
			t.Fatalf("unexpected transition from safe: %s", next)
		}
		switch next := sim.nextStatus(registry.StatusWarning); next {
		case registry.StatusSafe, registry.StatusAlert:
		default:
			t.Fatalf("unexpected transition from warning: %s", next)
		}
		assert.Equal(t, registry.StatusWarning, sim.nextStatus(registry.StatusAlert))
		assert.Equal(t, registry.StatusOffline, sim.nextStatus(registry.StatusOffline))
	}
}
