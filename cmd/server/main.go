package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/safence/sentinelguard/internal/api"
	"github.com/safence/sentinelguard/internal/bus"
	"github.com/safence/sentinelguard/internal/cache"
	"github.com/safence/sentinelguard/internal/clients/directions"
	"github.com/safence/sentinelguard/internal/clients/ipapi"
	"github.com/safence/sentinelguard/internal/config"
	"github.com/safence/sentinelguard/internal/lib/alerts"
	"github.com/safence/sentinelguard/internal/lib/geo"
	"github.com/safence/sentinelguard/internal/lib/overlay"
	"github.com/safence/sentinelguard/internal/location"
	"github.com/safence/sentinelguard/internal/logging"
	"github.com/safence/sentinelguard/internal/registry"
	"github.com/safence/sentinelguard/internal/services"
)

var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("SG_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Device and zone registry
	reg, err := registry.New(config.DefaultDevices(), config.DefaultZones())
	if err != nil {
		log.Fatalf("registry: %v", err)
	}

	// Cache with background expiry
	store := cache.New()
	store.StartPeriodicCleanup(ctx, time.Minute, slog.Default())

	// Realtime event bus
	events := bus.New(slog.Default())

	// Map surface and overlay controller
	surface := overlay.NewStateSurface()
	controller, err := overlay.NewController(surface, overlay.ViewConfig{
		Center: geo.Point{Latitude: cfg.Map.CenterLat, Longitude: cfg.Map.CenterLng},
		Zoom:   cfg.Map.Zoom,
		MaxBounds: geo.Bounds{
			SouthWest: geo.Point{Latitude: cfg.Map.BoundsSouthLat, Longitude: cfg.Map.BoundsWestLng},
			NorthEast: geo.Point{Latitude: cfg.Map.BoundsNorthLat, Longitude: cfg.Map.BoundsEastLng},
		},
	}, slog.Default())
	if err != nil {
		log.Fatalf("map surface: %v", err)
	}

	// Optional OpenAI alert enhancement
	var enhancer alerts.Enhancer
	if cfg.Alerts.OpenAIAPIKey != "" {
		enhancer = alerts.NewCachedEnhancer(
			alerts.NewEnhancer(cfg.Alerts.OpenAIAPIKey, cfg.Alerts.OpenAIModel),
			store, cfg.Alerts.EnhanceTTL,
		)
		slog.Info("alert enhancement enabled", "model", cfg.Alerts.OpenAIModel)
	} else {
		slog.Info("alert enhancement disabled, no OpenAI API key configured")
	}

	// Services
	logs := services.NewLogService(events)
	alertSvc := services.NewAlertService(enhancer, events, logs, slog.Default())
	deviceSvc := services.NewDeviceService(reg, events, logs)
	maps := services.NewMapService(reg, surface, controller, events)

	routeClient := directions.NewClient(cfg.Directions.BaseURL, cfg.Directions.Timeout)
	planner := services.NewRoutePlanner(routeClient, store, cfg.Directions.CacheTTL, events, slog.Default())

	var geolocator location.Geolocator
	if cfg.Location.Enabled {
		geolocator = ipapi.NewClient(cfg.Location.BaseURL, cfg.Location.Timeout)
	}
	locationProvider := location.NewProvider(geolocator, cfg.Location.Timeout, cfg.Location.MaxAge, slog.Default())

	// Telemetry simulator
	simulator := services.NewSimulator(reg, deviceSvc, alertSvc, maps, slog.Default())
	if cfg.Simulator.Enabled {
		simulator.Start(ctx, cfg.Simulator.Interval)
		defer simulator.Stop()
	}

	deps := &api.Dependencies{
		Maps:     maps,
		Devices:  deviceSvc,
		Alerts:   alertSvc,
		Logs:     logs,
		Planner:  planner,
		Location: locationProvider,
		Events:   events,
		Version:  version,
	}

	app := fiber.New(fiber.Config{
		AppName:   "SentinelGuard API",
		BodyLimit: 1024 * 1024, // 1 MB max request body
	})
	api.SetupRoutes(app, deps, strings.Join(cfg.Server.CorsOrigins, ", "))

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("server starting", "addr", addr, "devices", len(reg.Devices()), "zones", len(reg.Zones()))
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
