package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/safence/sentinelguard/internal/lib/alerts"
	"github.com/safence/sentinelguard/internal/metrics"
	"github.com/safence/sentinelguard/internal/registry"
)

// Simulator drives synthetic telemetry through the registry so the
// dashboard has live data without field hardware attached: voltage drift,
// heartbeats, occasional status flips and alerts for devices that go hot.
type Simulator struct {
	registry *registry.Registry
	devices  *DeviceService
	alerts   *AlertService
	maps     *MapService
	logger   *slog.Logger
	rng      *rand.Rand

	mu       sync.Mutex
	stopChan chan struct{}
	running  bool
}

// NewSimulator creates a telemetry simulator.
func NewSimulator(reg *registry.Registry, devices *DeviceService, alertSvc *AlertService, maps *MapService, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{
		registry: reg,
		devices:  devices,
		alerts:   alertSvc,
		maps:     maps,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		stopChan: make(chan struct{}),
	}
}

// Start begins periodic telemetry ticks. Calling Start on a running
// simulator is a no-op.
func (s *Simulator) Start(ctx context.Context, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	if interval <= 0 {
		interval = 5 * time.Second
	}
	s.logger.Info("starting telemetry simulator", "interval", interval)
	go s.loop(ctx, interval)
}

// Stop gracefully stops the simulator.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.stopChan)
	s.logger.Info("stopped telemetry simulator")
}

func (s *Simulator) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Simulator) tick(ctx context.Context) {
	metrics.SimulatorTicks.Inc()

	statusChanged := false
	now := time.Now()

	for _, device := range s.registry.Devices() {
		if device.Status == registry.StatusOffline || device.Status == registry.StatusMaintenance {
			continue
		}

		voltage := 11.0 + s.rng.Float64()*2.0
		patch := registry.DevicePatch{
			Voltage:       &voltage,
			LastHeartbeat: &now,
		}

		// Rarely flip a device's status to keep the map moving.
		if s.rng.Float64() < 0.05 {
			next := s.nextStatus(device.Status)
			patch.Status = &next
			statusChanged = true

			if next == registry.StatusAlert {
				count := device.AlertCount + 1
				patch.AlertCount = &count
			}
		}

		updated, err := s.devices.Patch(device.ID, patch)
		if err != nil {
			s.logger.Warn("simulator failed to update device", "device", device.ID, "error", err)
			continue
		}

		if patch.Status != nil && updated.Status == registry.StatusAlert {
			s.alerts.Raise(ctx, alerts.Alert{
				DeviceID:   updated.ID,
				DeviceName: updated.Name,
				Severity:   alerts.SeverityCritical,
				Message:    fmt.Sprintf("Anomalous activity detected by %s", updated.Name),
				Location:   fmt.Sprintf("%s, %s", updated.District, updated.State),
			})
		}
	}

	if statusChanged && s.maps != nil {
		s.maps.Refresh()
	}
}

// nextStatus picks a plausible transition from the current status.
func (s *Simulator) nextStatus(current registry.DeviceStatus) registry.DeviceStatus {
	switch current {
	case registry.StatusSafe:
		if s.rng.Float64() < 0.3 {
			return registry.StatusAlert
		}
		return registry.StatusWarning
	case registry.StatusWarning:
		if s.rng.Float64() < 0.5 {
			return registry.StatusSafe
		}
		return registry.StatusAlert
	case registry.StatusAlert:
		return registry.StatusWarning
	default:
		return current
	}
}
