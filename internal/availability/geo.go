package availability

import "math"

const (
	earthRadiusKm = 6371.0
	kmPerMile     = 1.609344
)

// Contains reports whether loc lies within the geofence radius of its
// center, by great-circle distance.
func (g Geofence) Contains(loc Location) bool {
	return DistanceKm(g.Center, loc) <= g.RadiusMiles*kmPerMile
}

// DistanceKm is the great-circle (haversine) distance between two points.
func DistanceKm(a, b Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
