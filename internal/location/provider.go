// Package location acquires and caches the operator device's position.
package location

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/safence/sentinelguard/internal/clients/ipapi"
	"github.com/safence/sentinelguard/internal/lib/geo"
)

// ErrorKind classifies why a position could not be acquired.
type ErrorKind string

const (
	KindPermissionDenied    ErrorKind = "permissionDenied"
	KindPositionUnavailable ErrorKind = "positionUnavailable"
	KindTimeout             ErrorKind = "timeout"
	KindUnsupported         ErrorKind = "unsupported"
)

// Message returns the operator-facing message for the error kind.
func (k ErrorKind) Message() string {
	switch k {
	case KindPermissionDenied:
		return "Location access denied. Please enable location services."
	case KindPositionUnavailable:
		return "Location information unavailable."
	case KindTimeout:
		return "Location request timed out."
	case KindUnsupported:
		return "Location lookup is not supported on this deployment."
	}
	return "Unable to determine location."
}

// Error is a classified location failure.
type Error struct {
	Kind  ErrorKind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return string(e.Kind) + ": " + e.Cause.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// Geolocator looks up the current device position.
type Geolocator interface {
	Locate(ctx context.Context) (geo.Point, error)
}

// Fix is an acquired position with its acquisition time.
type Fix struct {
	Position   geo.Point `json:"position"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Provider acquires positions through a Geolocator, reusing a recent fix
// instead of issuing a fresh lookup. When lookups overlap, only the most
// recently issued one may publish its result.
type Provider struct {
	geolocator Geolocator
	timeout    time.Duration
	maxAge     time.Duration
	logger     *slog.Logger
	now        func() time.Time

	seq atomic.Uint64

	mu   sync.RWMutex
	last *Fix
}

// NewProvider creates a provider. A nil geolocator is allowed; every acquire
// then fails with KindUnsupported.
func NewProvider(geolocator Geolocator, timeout, maxAge time.Duration, logger *slog.Logger) *Provider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxAge <= 0 {
		maxAge = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		geolocator: geolocator,
		timeout:    timeout,
		maxAge:     maxAge,
		logger:     logger,
		now:        time.Now,
	}
}

// Acquire returns the device position, reusing the last fix if it is younger
// than the maximum age.
func (p *Provider) Acquire(ctx context.Context) (Fix, error) {
	p.mu.RLock()
	last := p.last
	p.mu.RUnlock()

	if last != nil && p.now().Sub(last.AcquiredAt) < p.maxAge {
		return *last, nil
	}
	return p.Refresh(ctx)
}

// Refresh always issues a fresh lookup, bypassing the cached fix.
func (p *Provider) Refresh(ctx context.Context) (Fix, error) {
	if p.geolocator == nil {
		return Fix{}, &Error{Kind: KindUnsupported}
	}

	token := p.seq.Add(1)

	lookupCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	position, err := p.geolocator.Locate(lookupCtx)
	if err != nil {
		kind := classify(err)
		p.logger.Warn("location lookup failed", "kind", kind, "error", err)
		return Fix{}, &Error{Kind: kind, Cause: err}
	}

	fix := Fix{Position: position, AcquiredAt: p.now()}

	p.mu.Lock()
	defer p.mu.Unlock()
	// A newer lookup may have finished first; its fix wins.
	if token != p.seq.Load() {
		if p.last != nil {
			return *p.last, nil
		}
		return fix, nil
	}
	p.last = &fix
	return fix, nil
}

// Current returns the last acquired fix, if any, without issuing a lookup.
func (p *Provider) Current() (Fix, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.last == nil {
		return Fix{}, false
	}
	return *p.last, true
}

func classify(err error) ErrorKind {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout
	case errors.Is(err, ipapi.ErrPermissionDenied):
		return KindPermissionDenied
	default:
		return KindPositionUnavailable
	}
}
