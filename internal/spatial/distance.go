package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters

	// Equirectangular scale factors used for short-extent planar approximations
	metersPerDegreeLon = 111320.0 // at the equator, scaled by cos(lat)
	metersPerDegreeLat = 110540.0
)

// Point represents a 2D point with latitude and longitude in degrees
type Point struct {
	Lat float64
	Lon float64
}

// HaversineDistance calculates the great-circle distance between two points in meters.
// s2.LatLng.Distance evaluates the haversine formula, so identical and antipodal
// points are both well defined. Its rounding depends on argument order, so the
// points are sorted first to make the result exactly symmetric.
func HaversineDistance(a, b Point) float64 {
	if b.Lat < a.Lat || (b.Lat == a.Lat && b.Lon < a.Lon) {
		a, b = b, a
	}
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Bearing calculates the initial bearing (forward azimuth) from a to b.
// Returns bearing in degrees [0, 360), where 0 is North, 90 is East, etc.
func Bearing(a, b Point) float64 {
	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	lonDiff := (b.Lon - a.Lon) * math.Pi / 180

	y := math.Sin(lonDiff) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(lonDiff)
	bearing := math.Atan2(y, x)

	bearingDeg := math.Mod(bearing*180/math.Pi+360, 360)
	// Mod can return exactly 360 for tiny negative inputs
	if bearingDeg >= 360 {
		bearingDeg -= 360
	}
	return bearingDeg
}

// SegmentDistance returns the distance in meters from p to the segment a-b.
// The three points are projected onto a local equirectangular plane (longitude
// scaled by cos(latitude)); the projection parameter is clamped to the segment.
// A degenerate segment (a == b) reduces to the planar point-to-point distance.
func SegmentDistance(p, a, b Point) float64 {
	px, py := project(p)
	ax, ay := project(a)
	bx, by := project(b)

	dx, dy := bx-ax, by-ay
	if dx == 0 && dy == 0 {
		return math.Hypot(px-ax, py-ay)
	}

	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))

	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}

// project maps a coordinate to planar meters
func project(p Point) (float64, float64) {
	x := p.Lon * metersPerDegreeLon * math.Cos(p.Lat*math.Pi/180)
	y := p.Lat * metersPerDegreeLat
	return x, y
}
