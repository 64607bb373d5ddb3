// Package geo computes great-circle distances and the proximity check
// that gates voting at a venue.
package geo

import (
	"fmt"
	"math"
)

const (
	// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
	EarthRadiusMeters = 6371000.0

	// DefaultMaxDistance is the voting radius around a venue, in meters.
	DefaultMaxDistance = 100.0
)

// Result is the outcome of a proximity check. Distance is rounded to the
// nearest meter for display; IsValid is decided on the unrounded value.
type Result struct {
	IsValid  bool `json:"is_valid"`
	Distance int  `json:"distance"`
}

// Distance returns the haversine distance in meters between two points given
// in decimal degrees. Inputs are not range-checked.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// float error can push a slightly past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// Validate checks whether the user is within maxMeters of the venue.
func Validate(userLat, userLng, venueLat, venueLng, maxMeters float64) Result {
	d := Distance(userLat, userLng, venueLat, venueLng)
	return Result{
		IsValid:  d <= maxMeters,
		Distance: int(math.Round(d)),
	}
}

// FormatDistance renders meters as "850 m" or "1.2 km".
func FormatDistance(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", meters)
	}
	return fmt.Sprintf("%.1f km", float64(meters)/1000)
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
