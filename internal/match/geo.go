package match

import "math"

const earthRadiusMeters = 6371000

// HaversineDistance calculates the great-circle distance between two points
// in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Distance returns the distance in meters between two optional coordinate
// pairs, or (0, false) when either side lacks coordinates.
func Distance(lat1, lon1, lat2, lon2 *float64) (float64, bool) {
	if lat1 == nil || lon1 == nil || lat2 == nil || lon2 == nil {
		return 0, false
	}
	return HaversineDistance(*lat1, *lon1, *lat2, *lon2), true
}

// ProximityScore maps a distance to a score in [0, 1]:
// max(0, 1 - distance/thresholdMeters).
func ProximityScore(distanceMeters, thresholdMeters float64) float64 {
	if thresholdMeters <= 0 {
		return 0.0
	}
	score := 1.0 - distanceMeters/thresholdMeters
	if score < 0 {
		return 0.0
	}
	return score
}
