package services

import (
	"fmt"

	"github.com/safence/sentinelguard/internal/bus"
	"github.com/safence/sentinelguard/internal/registry"
)

// DeviceService exposes the device registry to the API and publishes state
// changes to the realtime feed.
type DeviceService struct {
	registry *registry.Registry
	events   *bus.Bus
	logs     *LogService
}

// NewDeviceService creates a device service. Bus and logs are optional.
func NewDeviceService(reg *registry.Registry, events *bus.Bus, logs *LogService) *DeviceService {
	return &DeviceService{registry: reg, events: events, logs: logs}
}

// List returns all devices in dataset order.
func (s *DeviceService) List() []registry.Device {
	return s.registry.Devices()
}

// Get returns a device by id.
func (s *DeviceService) Get(id string) (registry.Device, bool) {
	return s.registry.Get(id)
}

// Patch updates a device's runtime state and announces the change.
func (s *DeviceService) Patch(id string, patch registry.DevicePatch) (registry.Device, error) {
	device, err := s.registry.Update(id, patch)
	if err != nil {
		return registry.Device{}, err
	}

	if s.logs != nil && patch.Status != nil {
		s.logs.Append("info", "devices", fmt.Sprintf("%s status changed to %s", device.Name, device.Status))
	}
	if s.events != nil {
		s.events.Publish(bus.EventDeviceUpdate, device)
	}
	return device, nil
}

// Summary is the dashboard headline view of the deployment.
type Summary struct {
	TotalDevices int                          `json:"total_devices"`
	ByStatus     map[registry.DeviceStatus]int `json:"by_status"`
	ByType       map[registry.DeviceType]int   `json:"by_type"`
	ZoneCount    int                          `json:"zone_count"`
	ActiveAlerts int                          `json:"active_alerts"`
}

// Summarize computes the dashboard summary. The alert service is optional.
func (s *DeviceService) Summarize(alertSvc *AlertService) Summary {
	devices := s.registry.Devices()

	summary := Summary{
		TotalDevices: len(devices),
		ByStatus:     make(map[registry.DeviceStatus]int),
		ByType:       make(map[registry.DeviceType]int),
		ZoneCount:    len(s.registry.Zones()),
	}
	for _, d := range devices {
		summary.ByStatus[d.Status]++
		summary.ByType[d.Type]++
	}
	if alertSvc != nil {
		summary.ActiveAlerts = len(alertSvc.List(true))
	}
	return summary
}
