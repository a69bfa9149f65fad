package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	// Chennai Central Station to Tirupati Temple, a monitored corridor
	chennai := Point{Latitude: 13.0843, Longitude: 80.2705}
	tirupati := Point{Latitude: 13.6288, Longitude: 79.4192}

	distance := DistanceKm(chennai, tirupati)
	assert.InDelta(t, 97.5, distance, 1.0, "Chennai to Tirupati should be approximately 97.5km")

	// Symmetry
	assert.Equal(t, distance, DistanceKm(tirupati, chennai))

	// Identity
	assert.Equal(t, 0.0, DistanceKm(chennai, chennai))

	// Non-negative for a sample of pairs
	kochi := Point{Latitude: 9.9312, Longitude: 76.2673}
	assert.Greater(t, DistanceKm(chennai, kochi), 0.0)
}

func TestNewPoint(t *testing.T) {
	p, err := NewPoint(12.9716, 77.5946)
	require.NoError(t, err)
	assert.Equal(t, 12.9716, p.Latitude)

	_, err = NewPoint(200, -300)
	assert.Error(t, err, "should reject out-of-range coordinates")
}

func TestMidpoint(t *testing.T) {
	a := Point{Latitude: 10.0, Longitude: 76.0}
	b := Point{Latitude: 14.0, Longitude: 80.0}

	mid := Midpoint(a, b)
	assert.Equal(t, Point{Latitude: 12.0, Longitude: 78.0}, mid)
}

func TestBoundsOf(t *testing.T) {
	points := []Point{
		{Latitude: 13.0843, Longitude: 80.2705},
		{Latitude: 9.9312, Longitude: 76.2673},
		{Latitude: 17.4485, Longitude: 78.3908},
	}

	b, err := BoundsOf(points)
	require.NoError(t, err)
	assert.Equal(t, 9.9312, b.SouthWest.Latitude)
	assert.Equal(t, 76.2673, b.SouthWest.Longitude)
	assert.Equal(t, 17.4485, b.NorthEast.Latitude)
	assert.Equal(t, 80.2705, b.NorthEast.Longitude)

	_, err = BoundsOf(nil)
	assert.Error(t, err, "should reject an empty point set")
}

func TestBoundsPad(t *testing.T) {
	b := Bounds{
		SouthWest: Point{Latitude: 10.0, Longitude: 70.0},
		NorthEast: Point{Latitude: 12.0, Longitude: 74.0},
	}

	padded := b.Pad(0.15)
	assert.InDelta(t, 9.7, padded.SouthWest.Latitude, 1e-9)
	assert.InDelta(t, 69.4, padded.SouthWest.Longitude, 1e-9)
	assert.InDelta(t, 12.3, padded.NorthEast.Latitude, 1e-9)
	assert.InDelta(t, 74.6, padded.NorthEast.Longitude, 1e-9)
}

func TestBoundsContains(t *testing.T) {
	// South India viewport used by the dashboard
	b := Bounds{
		SouthWest: Point{Latitude: 8.0, Longitude: 74.0},
		NorthEast: Point{Latitude: 20.0, Longitude: 84.0},
	}

	assert.True(t, b.Contains(Point{Latitude: 13.0843, Longitude: 80.2705}))
	assert.False(t, b.Contains(Point{Latitude: 28.6139, Longitude: 77.2090})) // Delhi
}

func TestEncodeDecodePath(t *testing.T) {
	path := []Point{
		{Latitude: 13.0843, Longitude: 80.2705},
		{Latitude: 13.2, Longitude: 80.0},
		{Latitude: 13.6288, Longitude: 79.4192},
	}

	encoded := EncodePath(path)
	require.NotEmpty(t, encoded)

	decoded, err := DecodePath(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(path))
	for i := range path {
		assert.InDelta(t, path[i].Latitude, decoded[i].Latitude, 1e-4)
		assert.InDelta(t, path[i].Longitude, decoded[i].Longitude, 1e-4)
	}

	_, err = DecodePath("")
	assert.Error(t, err)
}
