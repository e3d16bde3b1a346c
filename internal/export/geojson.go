// Package export renders analysis reports to file formats consumed outside
// the CLI: XLSX workbooks for spreadsheet review and GeoJSON for map overlays.
package export

import (
	"encoding/json"
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/rankradius/rankradius/internal/geo"
	"github.com/rankradius/rankradius/internal/model"
)

const circleSegments = 64

// DominanceMap builds a GeoJSON FeatureCollection for the dominance map: the
// base location as a point, the dominance radius as a polygon ring around it,
// and one point per surveyed city carrying its coverage and opportunity
// properties. Coordinates follow GeoJSON order, longitude first.
func DominanceMap(report model.AnalysisReport, base model.Coordinate, cities []model.City) ([]byte, error) {
	if !base.Valid() {
		return nil, eris.Wrap(geo.ErrInvalidCoordinate, "export: base coordinate")
	}

	features := []*geojson.Feature{
		{
			ID:       "base",
			Geometry: geom.NewPointFlat(geom.XY, []float64{base.Lng, base.Lat}).SetSRID(4326),
			Properties: map[string]any{
				"kind": "base",
				"name": report.BaseName,
			},
		},
	}

	if report.Profile.RadiusKM > 0 {
		features = append(features, &geojson.Feature{
			ID:       "dominance-radius",
			Geometry: circlePolygon(base, report.Profile.RadiusKM),
			Properties: map[string]any{
				"kind":      "dominance_radius",
				"radius_km": report.Profile.RadiusKM,
			},
		})
	}

	opportunities := make(map[string]model.Opportunity, len(report.Opportunities))
	for _, o := range report.Opportunities {
		opportunities[o.CityName] = o
	}
	appearances := cityAppearances(report.Observations)

	for _, city := range cities {
		if !city.Coordinate.Valid() {
			continue
		}
		props := map[string]any{
			"kind":        "city",
			"name":        city.Name,
			"distance_km": city.DistanceKM,
			"tier":        city.Tier,
		}
		if a, ok := appearances[city.Name]; ok {
			props["observation_count"] = a.total
			props["appearing_count"] = a.appearing
		}
		if o, ok := opportunities[city.Name]; ok {
			props["opportunity_score"] = o.Score
			props["difficulty"] = string(o.Difficulty)
		}
		features = append(features, &geojson.Feature{
			ID:         "city-" + city.Name,
			Geometry:   geom.NewPointFlat(geom.XY, []float64{city.Coordinate.Lng, city.Coordinate.Lat}).SetSRID(4326),
			Properties: props,
		})
	}

	fc := geojson.FeatureCollection{Features: features}
	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "export: marshal feature collection")
	}
	return data, nil
}

type appearance struct {
	total     int
	appearing int
}

func cityAppearances(observations []model.SearchObservation) map[string]appearance {
	out := make(map[string]appearance)
	for _, obs := range observations {
		a := out[obs.CityName]
		a.total++
		if obs.Appears {
			a.appearing++
		}
		out[obs.CityName] = a
	}
	return out
}

// circlePolygon approximates a circle of the given radius around center as a
// closed ring, using the spherical destination formula on each bearing.
func circlePolygon(center model.Coordinate, radiusKM float64) *geom.Polygon {
	const earthRadiusKM = 6371.0

	latRad := center.Lat * math.Pi / 180
	lngRad := center.Lng * math.Pi / 180
	angular := radiusKM / earthRadiusKM

	flat := make([]float64, 0, (circleSegments+1)*2)
	for i := 0; i <= circleSegments; i++ {
		bearing := 2 * math.Pi * float64(i) / circleSegments
		lat := math.Asin(math.Sin(latRad)*math.Cos(angular) +
			math.Cos(latRad)*math.Sin(angular)*math.Cos(bearing))
		lng := lngRad + math.Atan2(
			math.Sin(bearing)*math.Sin(angular)*math.Cos(latRad),
			math.Cos(angular)-math.Sin(latRad)*math.Sin(lat))
		flat = append(flat, lng*180/math.Pi, lat*180/math.Pi)
	}

	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(4326)
}
