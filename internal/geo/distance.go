// Package geo provides great-circle distance and distance-tier classification
// around the business base location.
package geo

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/rankradius/rankradius/internal/model"
)

// ErrInvalidCoordinate marks a coordinate outside WGS84 range. Callers treat
// it as fatal to the offending city, not to the run.
var ErrInvalidCoordinate = eris.New("geo: invalid coordinate")

const earthRadiusKM = 6371.0

// Distance returns the haversine great-circle distance in kilometers between
// two coordinates. It is symmetric and returns 0 for identical points.
func Distance(a, b model.Coordinate) (float64, error) {
	if !a.Valid() {
		return 0, eris.Wrapf(ErrInvalidCoordinate, "lat=%f lng=%f", a.Lat, a.Lng)
	}
	if !b.Valid() {
		return 0, eris.Wrapf(ErrInvalidCoordinate, "lat=%f lng=%f", b.Lat, b.Lng)
	}

	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKM * c, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
