package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/safence/sentinelguard/internal/bus"
	"github.com/safence/sentinelguard/internal/lib/filter"
	"github.com/safence/sentinelguard/internal/lib/geo"
	"github.com/safence/sentinelguard/internal/location"
	"github.com/safence/sentinelguard/internal/registry"
	"github.com/safence/sentinelguard/internal/services"
)

// Dependencies carries the services the handlers operate on.
type Dependencies struct {
	Maps     *services.MapService
	Devices  *services.DeviceService
	Alerts   *services.AlertService
	Logs     *services.LogService
	Planner  *services.RoutePlanner
	Location *location.Provider
	Events   *bus.Bus
	Version  string
}

// HealthHandler reports liveness.
func HealthHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"version": deps.Version,
		})
	}
}

// MapStateHandler returns the full overlay snapshot for rendering.
func MapStateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Maps.Snapshot())
	}
}

// MapDevicesHandler returns the devices matching the current filters.
func MapDevicesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"devices": deps.Maps.FilteredDevices()})
	}
}

// MapZonesHandler returns the zones matching the current filters.
func MapZonesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"zones": deps.Maps.FilteredZones()})
	}
}

// GetFiltersHandler returns the current filter state.
func GetFiltersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Maps.Filters())
	}
}

// SetFiltersHandler replaces the filter state and redraws the overlays.
func SetFiltersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var state filter.State
		if err := c.BodyParser(&state); err != nil {
			return errBadRequest(c, "invalid filter payload: "+err.Error())
		}
		if err := deps.Maps.SetFilters(state); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(deps.Maps.Filters())
	}
}

// routeRequest is the resolve-route payload. Origin is optional; when
// absent, the device's last acquired location is used.
type routeRequest struct {
	Origin      *pointPayload `json:"origin"`
	Destination pointPayload  `json:"destination"`
}

type pointPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ResolveRouteHandler resolves a route and draws it on the map. A missing
// origin without an acquired location fix is a precondition failure: the
// caller must acquire a location first.
func ResolveRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req routeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid route payload: "+err.Error())
		}

		destination, err := geo.NewPoint(req.Destination.Lat, req.Destination.Lng)
		if err != nil {
			return errBadRequest(c, "invalid destination: "+err.Error())
		}

		var origin geo.Point
		if req.Origin != nil {
			origin, err = geo.NewPoint(req.Origin.Lat, req.Origin.Lng)
			if err != nil {
				return errBadRequest(c, "invalid origin: "+err.Error())
			}
		} else {
			fix, ok := deps.Location.Current()
			if !ok {
				return errPreconditionFailed(c, "no origin given and no location acquired; request a location first")
			}
			origin = fix.Position
		}

		result := deps.Planner.Resolve(c.Context(), origin, destination)
		deps.Maps.ShowRoute(result)
		return c.JSON(result)
	}
}

// CurrentRouteHandler returns the current route, if any.
func CurrentRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, ok := deps.Planner.Current()
		if !ok {
			return errNotFound(c, "no route resolved")
		}
		return c.JSON(result)
	}
}

// ClearRouteHandler discards the current route and its overlay.
func ClearRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Planner.Clear()
		deps.Maps.ClearRoute()
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetLocationHandler returns the device position, reusing a recent fix.
func GetLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return locate(c, deps, false)
	}
}

// RefreshLocationHandler forces a fresh location lookup.
func RefreshLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return locate(c, deps, true)
	}
}

func locate(c *fiber.Ctx, deps *Dependencies, force bool) error {
	var fix location.Fix
	var err error
	if force {
		fix, err = deps.Location.Refresh(c.Context())
	} else {
		fix, err = deps.Location.Acquire(c.Context())
	}
	if err != nil {
		var locErr *location.Error
		if errors.As(err, &locErr) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":   string(locErr.Kind),
				"message": locErr.Kind.Message(),
			})
		}
		return errUnavailable(c, err.Error())
	}

	deps.Maps.ShowUserLocation(fix.Position)
	if deps.Events != nil {
		deps.Events.Publish(bus.EventLocation, fix)
	}
	return c.JSON(fix)
}

// ListDevicesHandler returns the full device registry.
func ListDevicesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"devices": deps.Devices.List()})
	}
}

// GetDeviceHandler returns one device by id.
func GetDeviceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		device, ok := deps.Devices.Get(c.Params("id"))
		if !ok {
			return errNotFound(c, "device not found: "+c.Params("id"))
		}
		return c.JSON(device)
	}
}

// PatchDeviceHandler updates a device's runtime state.
func PatchDeviceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch registry.DevicePatch
		if err := c.BodyParser(&patch); err != nil {
			return errBadRequest(c, "invalid patch payload: "+err.Error())
		}

		device, err := deps.Devices.Patch(c.Params("id"), patch)
		if err != nil {
			return errNotFound(c, err.Error())
		}
		deps.Maps.Refresh()
		return c.JSON(device)
	}
}

// ListAlertsHandler returns alerts, newest first. ?unacknowledged=true
// hides acknowledged ones.
func ListAlertsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		unacked := c.Query("unacknowledged") == "true"
		return c.JSON(fiber.Map{"alerts": deps.Alerts.List(unacked)})
	}
}

// AcknowledgeAlertHandler marks an alert acknowledged.
func AcknowledgeAlertHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		alert, err := deps.Alerts.Acknowledge(c.Params("id"))
		if err != nil {
			return errNotFound(c, err.Error())
		}
		return c.JSON(alert)
	}
}

// EnhancedAlertHandler returns the AI enhancement for an alert.
func EnhancedAlertHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		enhanced, ok := deps.Alerts.Enhanced(c.Params("id"))
		if !ok {
			return errNotFound(c, "no enhancement for alert: "+c.Params("id"))
		}
		return c.JSON(enhanced)
	}
}

// ListLogsHandler returns recent event log entries, newest first.
func ListLogsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 100
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				return errBadRequest(c, "invalid limit: "+raw)
			}
			limit = parsed
		}
		return c.JSON(fiber.Map{"logs": deps.Logs.Recent(limit)})
	}
}

// SummaryHandler returns the dashboard headline summary.
func SummaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Devices.Summarize(deps.Alerts))
	}
}
