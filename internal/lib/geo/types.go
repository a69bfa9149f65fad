package geo

// Point represents a geographic coordinate
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Bounds represents a rectangular geographic area by its corner points
type Bounds struct {
	SouthWest Point `json:"south_west"`
	NorthEast Point `json:"north_east"`
}

// Contains reports whether the point lies within the bounds (inclusive).
func (b Bounds) Contains(p Point) bool {
	return p.Latitude >= b.SouthWest.Latitude && p.Latitude <= b.NorthEast.Latitude &&
		p.Longitude >= b.SouthWest.Longitude && p.Longitude <= b.NorthEast.Longitude
}

// Corners returns the four corners of the bounds in clockwise order starting
// at the south-west corner. Useful for rendering the bounds as a ring.
func (b Bounds) Corners() []Point {
	return []Point{
		b.SouthWest,
		{Latitude: b.NorthEast.Latitude, Longitude: b.SouthWest.Longitude},
		b.NorthEast,
		{Latitude: b.SouthWest.Latitude, Longitude: b.NorthEast.Longitude},
	}
}

// Pad grows the bounds on every side by the given fraction of its span.
// A fraction of 0.15 matches the viewport padding used when fitting a route.
func (b Bounds) Pad(fraction float64) Bounds {
	latPad := (b.NorthEast.Latitude - b.SouthWest.Latitude) * fraction
	lngPad := (b.NorthEast.Longitude - b.SouthWest.Longitude) * fraction
	return Bounds{
		SouthWest: Point{Latitude: b.SouthWest.Latitude - latPad, Longitude: b.SouthWest.Longitude - lngPad},
		NorthEast: Point{Latitude: b.NorthEast.Latitude + latPad, Longitude: b.NorthEast.Longitude + lngPad},
	}
}
