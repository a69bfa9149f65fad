// Package config loads server configuration from defaults, an optional YAML
// file and SG__ environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SG__"

// Config is the complete server configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Map        MapConfig        `koanf:"map"`
	Directions DirectionsConfig `koanf:"directions"`
	Location   LocationConfig   `koanf:"location"`
	Simulator  SimulatorConfig  `koanf:"simulator"`
	Alerts     AlertsConfig     `koanf:"alerts"`
	Log        LogConfig        `koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	CorsOrigins     []string      `koanf:"cors_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// MapConfig holds the initial map viewport.
type MapConfig struct {
	CenterLat float64 `koanf:"center_lat"`
	CenterLng float64 `koanf:"center_lng"`
	Zoom      int     `koanf:"zoom"`
	// Pannable area of the map, as south-west / north-east corners.
	BoundsSouthLat float64 `koanf:"bounds_south_lat"`
	BoundsWestLng  float64 `koanf:"bounds_west_lng"`
	BoundsNorthLat float64 `koanf:"bounds_north_lat"`
	BoundsEastLng  float64 `koanf:"bounds_east_lng"`
}

// DirectionsConfig holds routing service settings.
type DirectionsConfig struct {
	BaseURL  string        `koanf:"base_url"`
	Timeout  time.Duration `koanf:"timeout"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// LocationConfig holds device geolocation settings.
type LocationConfig struct {
	Enabled bool          `koanf:"enabled"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
	MaxAge  time.Duration `koanf:"max_age"`
}

// SimulatorConfig holds telemetry simulator settings.
type SimulatorConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

// AlertsConfig holds alert enhancement settings.
type AlertsConfig struct {
	OpenAIAPIKey string        `koanf:"openai_api_key"`
	OpenAIModel  string        `koanf:"openai_model"`
	EnhanceTTL   time.Duration `koanf:"enhance_ttl"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DefaultConfig returns the default configuration: a South India deployment
// centered on Chennai.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			CorsOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Map: MapConfig{
			CenterLat:      13.0827,
			CenterLng:      80.2707,
			Zoom:           6,
			BoundsSouthLat: 8.0,
			BoundsWestLng:  74.0,
			BoundsNorthLat: 20.0,
			BoundsEastLng:  84.0,
		},
		Directions: DirectionsConfig{
			BaseURL:  "https://router.project-osrm.org",
			Timeout:  15 * time.Second,
			CacheTTL: 5 * time.Minute,
		},
		Location: LocationConfig{
			Enabled: true,
			BaseURL: "http://ip-api.com",
			Timeout: 10 * time.Second,
			MaxAge:  60 * time.Second,
		},
		Simulator: SimulatorConfig{
			Enabled:  true,
			Interval: 5 * time.Second,
		},
		Alerts: AlertsConfig{
			OpenAIModel: "gpt-4o-mini",
			EnhanceTTL:  time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// when it exists, then SG__ environment variables. Nested keys use double
// underscores: SG__SERVER__PORT=9090 sets server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	return &cfg, nil
}
