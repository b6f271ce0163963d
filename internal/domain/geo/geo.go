package geo

import "math"

// EarthRadiusKm is the mean radius of Earth used for Haversine distance.
const EarthRadiusKm = 6371.0

// kmPerLatDegree approximates the north-south extent of one degree of latitude.
const kmPerLatDegree = 111.0

// Coordinate is a WGS 84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Valid checks that latitude is in [-90,90] and longitude in [-180,180].
// Out-of-range coordinates are rejected upstream, never clamped.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// BoundingBox is an axis-aligned lat/lng rectangle. It is derived per
// search call and never persisted.
type BoundingBox struct {
	NorthEast Coordinate
	SouthWest Coordinate
}

// Contains reports whether the point lies inside the box (inclusive).
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.SouthWest.Lat && c.Lat <= b.NorthEast.Lat &&
		c.Lng >= b.SouthWest.Lng && c.Lng <= b.NorthEast.Lng
}

// Distance returns the great-circle (Haversine) distance in kilometers
// between two coordinates.
func Distance(a, b Coordinate) float64 {
	lat1r := a.Lat * math.Pi / 180
	lat2r := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// BoundingBoxAround returns the axis-aligned box covering the disc of the
// given radius around center. The box is a superset of the disc (it extends
// to the disc's bounding square); callers tighten it with an exact Distance
// cut afterwards.
func BoundingBoxAround(center Coordinate, radiusKm float64) BoundingBox {
	latDelta := radiusKm / kmPerLatDegree
	lngDelta := radiusKm / (kmPerLatDegree * math.Cos(center.Lat*math.Pi/180))

	return BoundingBox{
		NorthEast: Coordinate{Lat: center.Lat + latDelta, Lng: center.Lng + lngDelta},
		SouthWest: Coordinate{Lat: center.Lat - latDelta, Lng: center.Lng - lngDelta},
	}
}
