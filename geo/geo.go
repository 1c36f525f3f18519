// Package geo provides great-circle distance and radius membership tests
// for listing coordinates.
package geo

import (
	"math"

	"github.com/casaseek/casaseek/core"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance between two points
// in kilometers.
func DistanceKm(a, b core.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLng*sinLng

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// WithinRadius reports whether b lies within radiusKm of a.
func WithinRadius(a, b core.Coordinates, radiusKm float64) bool {
	return DistanceKm(a, b) <= radiusKm
}

// ListingWithinRadius reports whether a listing lies within radiusKm of the
// given center. Listings without coordinates cannot be geo-excluded and are
// always within radius.
func ListingWithinRadius(l *core.Listing, center core.Coordinates, radiusKm float64) bool {
	if l.Coordinates == nil {
		return true
	}
	return WithinRadius(center, *l.Coordinates, radiusKm)
}
