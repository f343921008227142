package kernel

import (
	"errors"
	"fmt"
	"math"
	"time"

	"tiffin/internal/pkg/errs"
	"tiffin/internal/pkg/guard"
)

const (
	// MinLatitude is the southern bound of a valid latitude, in degrees.
	MinLatitude = -90.0
	// MaxLatitude is the northern bound of a valid latitude, in degrees.
	MaxLatitude = 90.0
	// MinLongitude is the western bound of a valid longitude, in degrees.
	MinLongitude = -180.0
	// MaxLongitude is the eastern bound of a valid longitude, in degrees.
	MaxLongitude = 180.0

	// EarthRadiusKm is the mean Earth radius used by Haversine.
	EarthRadiusKm = 6371.0088
)

// ErrGeoPointIsNotConstructed is returned when validating a zero-value GeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is a WGS84 latitude/longitude pair in decimal degrees. It marks a
// customer's address, a delivery's drop-off point or the kitchen depot.
//
// GeoPoint is an immutable value object; the zero value is invalid and fails
// Validate, so "no location" is expressed with a nil *GeoPoint rather than
// (0, 0).
//
// Example:
//
//	depot, err := kernel.NewGeoPoint(49.1042, -122.6604)
//	if err != nil {
//	    // handle validation error
//	}
//	km := depot.DistanceTo(stop)
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint after checking that latitude lies in
// [MinLatitude, MaxLatitude] and longitude in [MinLongitude, MaxLongitude].
// NaN and infinite inputs are rejected.
//
// Parameters:
//   - latitude: degrees north of the equator
//   - longitude: degrees east of Greenwich
//
// Returns:
//   - GeoPoint: a valid point
//   - error: joined range errors for every offending coordinate
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLatitude(latitude), p.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// MustGeoPoint is like NewGeoPoint but panics on invalid input. It is intended
// for package-level defaults and test fixtures.
func MustGeoPoint(latitude, longitude float64) GeoPoint {
	p, err := NewGeoPoint(latitude, longitude)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate reports whether the point was built by a constructor.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// IsEqual reports whether both points carry exactly the same coordinates.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.latitude == other.latitude && p.longitude == other.longitude
}

// String implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.latitude, p.longitude)
}

// DistanceTo returns the great-circle distance to other in kilometres.
// See Haversine.
func (p GeoPoint) DistanceTo(other GeoPoint) float64 {
	return Haversine(p, other)
}

// Haversine returns the great-circle distance between a and b in kilometres on a
// sphere of radius EarthRadiusKm. The result is symmetric, never negative and
// exactly zero for identical points.
//
// Example:
//
//	km := kernel.Haversine(depot, customer) // Langley -> Surrey is ~12 km
func Haversine(a, b GeoPoint) float64 {
	if a.IsEqual(b) {
		return 0
	}

	lat1 := degreesToRadians(a.latitude)
	lat2 := degreesToRadians(b.latitude)
	dLat := lat2 - lat1
	dLon := degreesToRadians(b.longitude - a.longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	// rounding can push h a hair past 1 for antipodal points
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// TravelTime converts a distance into driving time at a constant average speed.
// A non-positive speed yields zero.
//
// Example:
//
//	kernel.TravelTime(5, 20) // 15m0s
func TravelTime(distanceKm, speedKmh float64) time.Duration {
	if speedKmh <= 0 || distanceKm <= 0 {
		return 0
	}
	hours := distanceKm / speedKmh
	return time.Duration(math.Round(hours * float64(time.Hour)))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func (p *GeoPoint) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || latitude < MinLatitude || latitude > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}
	p.latitude = latitude
	return nil
}

func (p *GeoPoint) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || longitude < MinLongitude || longitude > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}
	p.longitude = longitude
	return nil
}
