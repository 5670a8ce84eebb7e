package geo

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"
)

// Point is a WGS84 coordinate.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HaversineKm calculates the great-circle distance between two GPS
// coordinates in kilometers.
func HaversineKm(a, b Point) float64 {
	const earthRadius = 6371.0 // Earth's radius in kilometers

	lat1Rad := a.Latitude * math.Pi / 180
	lat2Rad := b.Latitude * math.Pi / 180
	deltaLat := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}

// HaversineMeters is HaversineKm in meters, for proximity thresholds.
func HaversineMeters(a, b Point) float64 {
	return HaversineKm(a, b) * 1000
}

// ParsePolygon decodes a GeoJSON Polygon. GeoJSON positions are [lon, lat].
func ParsePolygon(raw string) (*geom.Polygon, error) {
	var g geom.T
	if err := geojson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, fmt.Errorf("invalid GeoJSON geometry: %w", err)
	}
	poly, ok := g.(*geom.Polygon)
	if !ok {
		return nil, fmt.Errorf("geometry is %T, expected Polygon", g)
	}
	if poly.NumLinearRings() == 0 {
		return nil, fmt.Errorf("polygon has no rings")
	}
	return poly, nil
}

// PolygonContains reports whether the point lies inside the polygon's outer
// ring and outside all of its holes.
func PolygonContains(poly *geom.Polygon, p Point) bool {
	coord := geom.Coord{p.Longitude, p.Latitude}
	if !xy.IsPointInRing(poly.Layout(), coord, poly.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < poly.NumLinearRings(); i++ {
		if xy.IsPointInRing(poly.Layout(), coord, poly.LinearRing(i).FlatCoords()) {
			return false
		}
	}
	return true
}

// PolygonCentroid returns the areal centroid of the polygon.
func PolygonCentroid(poly *geom.Polygon) Point {
	c := xy.PolygonsCentroid(poly)
	return Point{Latitude: c.Y(), Longitude: c.X()}
}
