package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Square roughly 2.2 km on a side around central Accra.
const accraSquare = `{"type":"Polygon","coordinates":[[[-0.21,5.54],[-0.19,5.54],[-0.19,5.56],[-0.21,5.56],[-0.21,5.54]]]}`

func TestHaversineKm(t *testing.T) {
	// Accra to Kumasi is roughly 200 km as the crow flies.
	accra := Point{Latitude: 5.5600, Longitude: -0.2057}
	kumasi := Point{Latitude: 6.6885, Longitude: -1.6244}

	d := HaversineKm(accra, kumasi)
	assert.InDelta(t, 200, d, 10)

	// Zero distance for identical points.
	assert.Zero(t, HaversineKm(accra, accra))

	// Symmetry.
	assert.InDelta(t, d, HaversineKm(kumasi, accra), 1e-9)
}

func TestHaversineMetersSmallOffset(t *testing.T) {
	// 0.001 degrees of latitude is about 111 meters.
	a := Point{Latitude: 5.5500, Longitude: -0.2000}
	b := Point{Latitude: 5.5510, Longitude: -0.2000}
	assert.InDelta(t, 111, HaversineMeters(a, b), 1)
}

func TestParsePolygon(t *testing.T) {
	poly, err := ParsePolygon(accraSquare)
	require.NoError(t, err)
	assert.Equal(t, 1, poly.NumLinearRings())

	_, err = ParsePolygon(`{"type":"Point","coordinates":[-0.2,5.55]}`)
	assert.Error(t, err)

	_, err = ParsePolygon(`not json`)
	assert.Error(t, err)
}

func TestPolygonContains(t *testing.T) {
	poly, err := ParsePolygon(accraSquare)
	require.NoError(t, err)

	assert.True(t, PolygonContains(poly, Point{Latitude: 5.55, Longitude: -0.20}))
	assert.False(t, PolygonContains(poly, Point{Latitude: 5.58, Longitude: -0.20}))
	assert.False(t, PolygonContains(poly, Point{Latitude: 5.55, Longitude: -0.25}))
}

func TestPolygonCentroid(t *testing.T) {
	poly, err := ParsePolygon(accraSquare)
	require.NoError(t, err)

	c := PolygonCentroid(poly)
	assert.InDelta(t, 5.55, c.Latitude, 1e-6)
	assert.InDelta(t, -0.20, c.Longitude, 1e-6)
}
