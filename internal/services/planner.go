package services

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/safence/sentinelguard/internal/bus"
	"github.com/safence/sentinelguard/internal/cache"
	"github.com/safence/sentinelguard/internal/clients/directions"
	"github.com/safence/sentinelguard/internal/lib/geo"
	"github.com/safence/sentinelguard/internal/metrics"
)

const (
	// Assumed average speed for estimated travel times, km/h.
	estimateSpeedKmh = 45.0
	// Fixed emission factor, kg CO2 per km.
	carbonKgPerKm = 0.21
	// Diagonal offset of the synthesized path's control points, degrees.
	curveOffsetDeg = 0.01
)

// estimateDisclaimers replace turn instructions on estimated routes.
var estimateDisclaimers = []string{
	"Route service unavailable; showing an estimated path.",
	"Distance and duration are approximate.",
	"Actual roads may differ significantly from the line shown.",
}

// RouteResult is a resolved route, real or estimated.
type RouteResult struct {
	Origin            geo.Point   `json:"origin"`
	Destination       geo.Point   `json:"destination"`
	DistanceKm        float64     `json:"distance_km"`
	DurationMinutes   float64     `json:"duration_minutes"`
	ArrivalTime       time.Time   `json:"arrival_time"`
	CarbonFootprintKg float64     `json:"carbon_footprint_kg"`
	PathPoints        []geo.Point `json:"path_points"`
	Instructions      []string    `json:"instructions"`
	IsEstimated       bool        `json:"is_estimated"`
	ResolvedAt        time.Time   `json:"resolved_at"`
}

// RouteService computes a drivable route between two points.
type RouteService interface {
	Route(ctx context.Context, origin, destination geo.Point) (*directions.RouteData, error)
}

// RoutePlanner resolves routes through a directions service, falling back to
// a synthesized estimate when the service cannot produce one. Resolution
// never fails: the caller always gets a RouteResult. When requests overlap,
// only the most recently issued one may become the current route.
type RoutePlanner struct {
	directions RouteService
	store      *cache.Cache
	cacheTTL   time.Duration
	events     *bus.Bus
	logger     *slog.Logger
	now        func() time.Time

	seq atomic.Uint64

	mu      sync.RWMutex
	current *RouteResult
}

// NewRoutePlanner creates a planner. The bus is optional.
func NewRoutePlanner(svc RouteService, store *cache.Cache, cacheTTL time.Duration, events *bus.Bus, logger *slog.Logger) *RoutePlanner {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RoutePlanner{
		directions: svc,
		store:      store,
		cacheTTL:   cacheTTL,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// Resolve produces a route between origin and destination. Service failures
// are absorbed into the estimated fallback; arrival time and carbon
// footprint are recomputed either way.
func (p *RoutePlanner) Resolve(ctx context.Context, origin, destination geo.Point) RouteResult {
	token := p.seq.Add(1)
	start := p.now()

	result, outcome := p.resolve(ctx, origin, destination)
	result.ResolvedAt = p.now()

	metrics.RouteResolutions.WithLabelValues(outcome).Inc()
	metrics.RouteResolutionDuration.Observe(p.now().Sub(start).Seconds())

	p.mu.Lock()
	// A newer request or clear supersedes this result.
	if token == p.seq.Load() {
		p.current = &result
		p.mu.Unlock()
		if p.events != nil {
			p.events.Publish(bus.EventRoute, result)
		}
		return result
	}
	p.mu.Unlock()
	return result
}

func (p *RoutePlanner) resolve(ctx context.Context, origin, destination geo.Point) (RouteResult, string) {
	key := cache.RouteKey(origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)

	if p.store != nil {
		var cached RouteResult
		if found, err := p.store.Get(key, &cached); err == nil && found {
			metrics.CacheHits.WithLabelValues("route").Inc()
			refreshed := p.refreshTimes(cached)
			return refreshed, "cached"
		}
		metrics.CacheMisses.WithLabelValues("route").Inc()
	}

	if p.directions != nil {
		data, err := p.directions.Route(ctx, origin, destination)
		if err == nil {
			result := p.fromDirections(origin, destination, data)
			if p.store != nil {
				if err := p.store.Set(key, result, p.cacheTTL, "directions"); err != nil {
					p.logger.Warn("failed to cache route", "error", err)
				}
			}
			return result, "routed"
		}
		p.logger.Warn("directions service failed, estimating route", "error", err)
	}

	return p.estimate(origin, destination), "estimated"
}

func (p *RoutePlanner) fromDirections(origin, destination geo.Point, data *directions.RouteData) RouteResult {
	distanceKm := data.DistanceMeters / 1000
	durationMinutes := data.DurationSeconds / 60

	instructions := data.Instructions
	if len(instructions) == 0 {
		instructions = []string{"Continue"}
	}

	return RouteResult{
		Origin:            origin,
		Destination:       destination,
		DistanceKm:        distanceKm,
		DurationMinutes:   durationMinutes,
		ArrivalTime:       p.now().Add(time.Duration(durationMinutes * float64(time.Minute))),
		CarbonFootprintKg: round2(distanceKm * carbonKgPerKm),
		PathPoints:        data.Geometry,
		Instructions:      instructions,
		IsEstimated:       false,
	}
}

// estimate synthesizes a curved 4-point path with travel figures derived
// from great-circle distance.
func (p *RoutePlanner) estimate(origin, destination geo.Point) RouteResult {
	distanceKm := geo.DistanceKm(origin, destination)
	durationMinutes := (distanceKm / estimateSpeedKmh) * 60

	mid := geo.Midpoint(origin, destination)
	path := []geo.Point{
		origin,
		{Latitude: mid.Latitude + curveOffsetDeg, Longitude: mid.Longitude - curveOffsetDeg},
		{Latitude: mid.Latitude - curveOffsetDeg, Longitude: mid.Longitude + curveOffsetDeg},
		destination,
	}

	return RouteResult{
		Origin:            origin,
		Destination:       destination,
		DistanceKm:        distanceKm,
		DurationMinutes:   durationMinutes,
		ArrivalTime:       p.now().Add(time.Duration(durationMinutes * float64(time.Minute))),
		CarbonFootprintKg: round2(distanceKm * carbonKgPerKm),
		PathPoints:        path,
		Instructions:      append([]string(nil), estimateDisclaimers...),
		IsEstimated:       true,
	}
}

// refreshTimes recomputes the arrival time of a cached result; distance and
// geometry are reusable, the clock is not.
func (p *RoutePlanner) refreshTimes(result RouteResult) RouteResult {
	result.ArrivalTime = p.now().Add(time.Duration(result.DurationMinutes * float64(time.Minute)))
	return result
}

// Current returns the current route, if one is resolved.
func (p *RoutePlanner) Current() (RouteResult, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.current == nil {
		return RouteResult{}, false
	}
	return *p.current, true
}

// Clear discards the current route. In-flight resolutions issued before the
// clear may not repopulate it.
func (p *RoutePlanner) Clear() {
	p.seq.Add(1)

	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()

	if p.events != nil {
		p.events.Publish(bus.EventRoute, nil)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
