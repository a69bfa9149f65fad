package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/safence/sentinelguard/internal/lib/geo"
)

// DeviceStatus is the operational status of a monitored device.
type DeviceStatus string

const (
	StatusSafe        DeviceStatus = "safe"
	StatusWarning     DeviceStatus = "warning"
	StatusAlert       DeviceStatus = "alert"
	StatusOffline     DeviceStatus = "offline"
	StatusMaintenance DeviceStatus = "maintenance"
)

// AllStatuses lists every device status. Filter flag maps must cover all of
// them; see filter.State.Validate.
func AllStatuses() []DeviceStatus {
	return []DeviceStatus{StatusSafe, StatusWarning, StatusAlert, StatusOffline, StatusMaintenance}
}

// MarkerColor returns the fixed map marker color for the status.
func (s DeviceStatus) MarkerColor() string {
	switch s {
	case StatusSafe:
		return "#10B981"
	case StatusWarning:
		return "#F59E0B"
	case StatusAlert:
		return "#EF4444"
	case StatusOffline:
		return "#6B7280"
	case StatusMaintenance:
		return "#3B82F6"
	default:
		return "#6B7280"
	}
}

// Valid reports whether the status is one of the known values.
func (s DeviceStatus) Valid() bool {
	switch s {
	case StatusSafe, StatusWarning, StatusAlert, StatusOffline, StatusMaintenance:
		return true
	}
	return false
}

// DeviceType is the hardware class of a monitored device.
type DeviceType string

const (
	TypeSensorNode DeviceType = "sensorNode"
	TypeCamera     DeviceType = "camera"
	TypeGateway    DeviceType = "gateway"
)

// AllTypes lists every device type.
func AllTypes() []DeviceType {
	return []DeviceType{TypeSensorNode, TypeCamera, TypeGateway}
}

// Valid reports whether the type is one of the known values.
func (t DeviceType) Valid() bool {
	switch t {
	case TypeSensorNode, TypeCamera, TypeGateway:
		return true
	}
	return false
}

// Device is a monitored field device. Identity and placement fields are
// reference data loaded once at startup; status and telemetry fields are
// runtime state maintained through the registry.
type Device struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Position    geo.Point    `json:"position"`
	Status      DeviceStatus `json:"status"`
	Type        DeviceType   `json:"type"`
	State       string       `json:"state"`
	District    string       `json:"district"`
	Category    string       `json:"category"`
	Description string       `json:"description,omitempty"`

	Voltage       float64   `json:"voltage"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
	AlertCount    int       `json:"alert_count"`
}

// Zone is a rectangular risk-zone overlay.
type Zone struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Bounds      geo.Bounds   `json:"bounds"`
	Color       string       `json:"color"`
	FillOpacity float64      `json:"fill_opacity"`
	Type        DeviceStatus `json:"type"`
}

// DevicePatch holds the mutable fields that may be updated on a device.
// Nil fields are left unchanged.
type DevicePatch struct {
	Status        *DeviceStatus `json:"status,omitempty"`
	Voltage       *float64      `json:"voltage,omitempty"`
	LastHeartbeat *time.Time    `json:"last_heartbeat,omitempty"`
	AlertCount    *int          `json:"alert_count,omitempty"`
}

// Registry holds the device and zone reference dataset. The dataset itself
// is loaded once and never grows or shrinks; only per-device runtime state
// changes, and only through Update.
type Registry struct {
	mu      sync.RWMutex
	devices []Device
	zones   []Zone
	index   map[string]int
}

// New builds a registry from the reference dataset, validating every record.
func New(devices []Device, zones []Zone) (*Registry, error) {
	index := make(map[string]int, len(devices))
	for i, d := range devices {
		if d.ID == "" {
			return nil, fmt.Errorf("device at index %d has no id", i)
		}
		if _, dup := index[d.ID]; dup {
			return nil, fmt.Errorf("duplicate device id %q", d.ID)
		}
		if !geo.IsValid(d.Position) {
			return nil, fmt.Errorf("device %q has invalid position", d.ID)
		}
		if !d.Status.Valid() {
			return nil, fmt.Errorf("device %q has unknown status %q", d.ID, d.Status)
		}
		if !d.Type.Valid() {
			return nil, fmt.Errorf("device %q has unknown type %q", d.ID, d.Type)
		}
		index[d.ID] = i
	}

	zoneIDs := make(map[string]bool, len(zones))
	for i, z := range zones {
		if z.ID == "" {
			return nil, fmt.Errorf("zone at index %d has no id", i)
		}
		if zoneIDs[z.ID] {
			return nil, fmt.Errorf("duplicate zone id %q", z.ID)
		}
		if !z.Type.Valid() {
			return nil, fmt.Errorf("zone %q has unknown type %q", z.ID, z.Type)
		}
		zoneIDs[z.ID] = true
	}

	r := &Registry{
		devices: make([]Device, len(devices)),
		zones:   make([]Zone, len(zones)),
		index:   index,
	}
	copy(r.devices, devices)
	copy(r.zones, zones)
	return r, nil
}

// Devices returns a copy of all devices in dataset order.
func (r *Registry) Devices() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// Zones returns a copy of all zones in dataset order.
func (r *Registry) Zones() []Zone {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Zone, len(r.zones))
	copy(out, r.zones)
	return out
}

// Get returns the device with the given id.
func (r *Registry) Get(id string) (Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return Device{}, false
	}
	return r.devices[i], true
}

// Update applies a patch to a device's runtime state and returns the updated
// device. Reference fields (id, name, position, region) cannot be patched.
func (r *Registry) Update(id string, patch DevicePatch) (Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return Device{}, fmt.Errorf("device not found: %s", id)
	}

	d := &r.devices[i]
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return Device{}, fmt.Errorf("unknown status %q", *patch.Status)
		}
		d.Status = *patch.Status
	}
	if patch.Voltage != nil {
		d.Voltage = *patch.Voltage
	}
	if patch.LastHeartbeat != nil {
		d.LastHeartbeat = *patch.LastHeartbeat
	}
	if patch.AlertCount != nil {
		d.AlertCount = *patch.AlertCount
	}
	return *d, nil
}

// Extent returns the bounding box of every device position, for restricting
// the pannable map area to the dataset's geographic extent.
func (r *Registry) Extent() (geo.Bounds, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	points := make([]geo.Point, len(r.devices))
	for i, d := range r.devices {
		points[i] = d.Position
	}
	return geo.BoundsOf(points)
}

// States returns the distinct administrative states present in the dataset,
// sorted, for populating filter pickers.
func (r *Registry) States() []string {
	return r.distinct(func(d Device) string { return d.State })
}

// Districts returns the distinct districts present in the dataset, sorted.
func (r *Registry) Districts() []string {
	return r.distinct(func(d Device) string { return d.District })
}

// Categories returns the distinct categories present in the dataset, sorted.
func (r *Registry) Categories() []string {
	return r.distinct(func(d Device) string { return d.Category })
}

func (r *Registry) distinct(field func(Device) string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, d := range r.devices {
		v := field(d)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
