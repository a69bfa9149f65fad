// Package filter reduces the device and zone reference sets to the subsets
// selected by the dashboard's filter state. Filtering is pure and stable:
// input order is preserved and filtering an already-filtered result with the
// same state yields the same set.
package filter

import (
	"fmt"

	"github.com/safence/sentinelguard/internal/registry"
)

// State is the dashboard filter selection. Status and type flags must be
// exhaustive over the device enums; the constraint sets follow an
// empty-means-all policy: an empty set places no restriction on that
// dimension.
type State struct {
	Statuses   map[registry.DeviceStatus]bool `json:"statuses"`
	Types      map[registry.DeviceType]bool   `json:"types"`
	States     []string                       `json:"states"`
	Districts  []string                       `json:"districts"`
	Categories []string                       `json:"categories"`
}

// AllEnabled returns the default filter state: every status and type flag
// set, no location constraints.
func AllEnabled() State {
	s := State{
		Statuses: make(map[registry.DeviceStatus]bool, 5),
		Types:    make(map[registry.DeviceType]bool, 3),
	}
	for _, st := range registry.AllStatuses() {
		s.Statuses[st] = true
	}
	for _, t := range registry.AllTypes() {
		s.Types[t] = true
	}
	return s
}

// Validate checks that the flag maps cover every known status and type and
// contain nothing else. Constructing the maps exhaustively up front avoids
// the silent false of a missing key.
func (s State) Validate() error {
	if len(s.Statuses) != len(registry.AllStatuses()) {
		return fmt.Errorf("status flags must cover all %d statuses, got %d", len(registry.AllStatuses()), len(s.Statuses))
	}
	for _, st := range registry.AllStatuses() {
		if _, ok := s.Statuses[st]; !ok {
			return fmt.Errorf("status flags missing %q", st)
		}
	}
	if len(s.Types) != len(registry.AllTypes()) {
		return fmt.Errorf("type flags must cover all %d types, got %d", len(registry.AllTypes()), len(s.Types))
	}
	for _, t := range registry.AllTypes() {
		if _, ok := s.Types[t]; !ok {
			return fmt.Errorf("type flags missing %q", t)
		}
	}
	return nil
}

// Devices returns the devices matching the filter state, in input order.
func Devices(all []registry.Device, s State) []registry.Device {
	out := make([]registry.Device, 0, len(all))
	for _, d := range all {
		if !s.Statuses[d.Status] {
			continue
		}
		if !s.Types[d.Type] {
			continue
		}
		if len(s.States) > 0 && !contains(s.States, d.State) {
			continue
		}
		if len(s.Districts) > 0 && !contains(s.Districts, d.District) {
			continue
		}
		if len(s.Categories) > 0 && !contains(s.Categories, d.Category) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Zones returns the zones whose type flag is set, in input order. Location
// constraints do not apply to zones.
func Zones(all []registry.Zone, s State) []registry.Zone {
	out := make([]registry.Zone, 0, len(all))
	for _, z := range all {
		if s.Statuses[z.Type] {
			out = append(out, z)
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
