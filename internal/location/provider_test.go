package location

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safence/sentinelguard/internal/clients/ipapi"
	"github.com/safence/sentinelguard/internal/lib/geo"
)

type stubGeolocator struct {
	mu    sync.Mutex
	point geo.Point
	err   error
	calls int
	block chan struct{}
}

func (s *stubGeolocator) Locate(ctx context.Context) (geo.Point, error) {
	s.mu.Lock()
	s.calls++
	point, err, block := s.point, s.err, s.block
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return geo.Point{}, ctx.Err()
		}
	}
	return point, err
}

func (s *stubGeolocator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestAcquire(t *testing.T) {
	stub := &stubGeolocator{point: geo.Point{Latitude: 13.0827, Longitude: 80.2707}}
	p := NewProvider(stub, time.Second, time.Minute, nil)

	fix, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stub.point, fix.Position)
	assert.False(t, fix.AcquiredAt.IsZero())

	current, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, fix, current)
}

func TestAcquireReusesRecentFix(t *testing.T) {
	stub := &stubGeolocator{point: geo.Point{Latitude: 13, Longitude: 80}}
	p := NewProvider(stub, time.Second, time.Minute, nil)

	_, err := p.Acquire(context.Background())
	require.NoError(t, err)
	_, err = p.Acquire(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stub.callCount(), "a fresh fix must be reused, not re-acquired")
}

func TestAcquireExpiredFix(t *testing.T) {
	stub := &stubGeolocator{point: geo.Point{Latitude: 13, Longitude: 80}}
	p := NewProvider(stub, time.Second, time.Minute, nil)

	now := time.Now()
	p.now = func() time.Time { return now }
	_, err := p.Acquire(context.Background())
	require.NoError(t, err)

	p.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = p.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stub.callCount())
}

func TestRefreshBypassesCache(t *testing.T) {
	stub := &stubGeolocator{point: geo.Point{Latitude: 13, Longitude: 80}}
	p := NewProvider(stub, time.Second, time.Minute, nil)

	_, err := p.Acquire(context.Background())
	require.NoError(t, err)
	_, err = p.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stub.callCount())
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"denied", ipapi.ErrPermissionDenied, KindPermissionDenied},
		{"unavailable", ipapi.ErrUnavailable, KindPositionUnavailable},
		{"timeout", context.DeadlineExceeded, KindTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProvider(&stubGeolocator{err: tc.err}, time.Second, time.Minute, nil)

			_, err := p.Acquire(context.Background())
			var locErr *Error
			require.ErrorAs(t, err, &locErr)
			assert.Equal(t, tc.kind, locErr.Kind)
			assert.NotEmpty(t, locErr.Kind.Message())
		})
	}
}

func TestNilGeolocatorUnsupported(t *testing.T) {
	p := NewProvider(nil, time.Second, time.Minute, nil)

	_, err := p.Acquire(context.Background())
	var locErr *Error
	require.ErrorAs(t, err, &locErr)
	assert.Equal(t, KindUnsupported, locErr.Kind)
}

func TestLookupTimeout(t *testing.T) {
	stub := &stubGeolocator{block: make(chan struct{})}
	p := NewProvider(stub, 20*time.Millisecond, time.Minute, nil)

	_, err := p.Acquire(context.Background())
	var locErr *Error
	require.ErrorAs(t, err, &locErr)
	assert.Equal(t, KindTimeout, locErr.Kind)
}

func TestNewestLookupWins(t *testing.T) {
	release := make(chan struct{})
	stub := &stubGeolocator{point: geo.Point{Latitude: 10, Longitude: 75}, block: release}
	p := NewProvider(stub, time.Second, time.Minute, nil)

	// First lookup stalls in flight.
	done := make(chan Fix, 1)
	go func() {
		fix, err := p.Refresh(context.Background())
		if err == nil {
			done <- fix
		}
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)

	// A second lookup is issued and completes while the first is stalled.
	stub.mu.Lock()
	stub.point = geo.Point{Latitude: 13, Longitude: 80}
	stub.block = nil
	stub.mu.Unlock()
	newest, err := p.Refresh(context.Background())
	require.NoError(t, err)

	// The stalled lookup finishes last but must not overwrite the newer fix.
	close(release)
	<-done

	current, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, newest.Position, current.Position)
	assert.Equal(t, geo.Point{Latitude: 13, Longitude: 80}, current.Position)
}
