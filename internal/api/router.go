package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"

	"github.com/safence/sentinelguard/internal/metrics"
)

// SetupRoutes registers all REST and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies, corsOrigins string) {
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: corsOrigins}))
	app.Use(requestid.New())

	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Get("/v1/health", HealthHandler(deps))

	v1 := app.Group("/v1")

	// Map surface
	v1.Get("/map/state", MapStateHandler(deps))
	v1.Get("/map/devices", MapDevicesHandler(deps))
	v1.Get("/map/zones", MapZonesHandler(deps))
	v1.Get("/map/filters", GetFiltersHandler(deps))
	v1.Put("/map/filters", SetFiltersHandler(deps))
	v1.Get("/map/export.kml", ExportKMLHandler(deps))

	// Routing
	v1.Post("/route", ResolveRouteHandler(deps))
	v1.Get("/route", CurrentRouteHandler(deps))
	v1.Delete("/route", ClearRouteHandler(deps))

	// Device location
	v1.Get("/location", GetLocationHandler(deps))
	v1.Post("/location/refresh", RefreshLocationHandler(deps))

	// Devices
	v1.Get("/devices", ListDevicesHandler(deps))
	v1.Get("/devices/:id", GetDeviceHandler(deps))
	v1.Patch("/devices/:id", PatchDeviceHandler(deps))

	// Alerts and logs
	v1.Get("/alerts", ListAlertsHandler(deps))
	v1.Patch("/alerts/:id", AcknowledgeAlertHandler(deps))
	v1.Get("/alerts/:id/enhanced", EnhancedAlertHandler(deps))
	v1.Get("/logs", ListLogsHandler(deps))

	// Dashboard
	v1.Get("/dashboard/summary", SummaryHandler(deps))

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.Events, nil)))
}
