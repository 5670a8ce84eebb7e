package services

import (
	"testing"

	"borla-backend/internal/geo"
	"borla-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderByCentroid(t *testing.T) {
	centroid := geo.Point{Latitude: 5.60, Longitude: -0.19}
	points := []ServicePoint{
		{ClientID: "c-far", Location: geo.Point{Latitude: 5.65, Longitude: -0.19}},
		{ClientID: "c-near", Location: geo.Point{Latitude: 5.601, Longitude: -0.19}},
		{ClientID: "c-mid", Location: geo.Point{Latitude: 5.62, Longitude: -0.19}},
	}

	ordered := OrderByCentroid(points, centroid)

	require.Len(t, ordered, 3)
	assert.Equal(t, "c-near", ordered[0].ClientID)
	assert.Equal(t, "c-mid", ordered[1].ClientID)
	assert.Equal(t, "c-far", ordered[2].ClientID)

	// input slice is left untouched
	assert.Equal(t, "c-far", points[0].ClientID)
}

func TestOrderByCentroidTieBreaksByClientID(t *testing.T) {
	centroid := geo.Point{Latitude: 5.60, Longitude: -0.19}
	same := geo.Point{Latitude: 5.61, Longitude: -0.19}
	points := []ServicePoint{
		{ClientID: "zzz", Location: same},
		{ClientID: "aaa", Location: same},
		{ClientID: "mmm", Location: same},
	}

	ordered := OrderByCentroid(points, centroid)

	assert.Equal(t, "aaa", ordered[0].ClientID)
	assert.Equal(t, "mmm", ordered[1].ClientID)
	assert.Equal(t, "zzz", ordered[2].ClientID)
}

func TestValidateStopsInZone(t *testing.T) {
	boundary, err := geo.ParsePolygon(`{"type":"Polygon","coordinates":[[[-0.25,5.55],[-0.13,5.55],[-0.13,5.65],[-0.25,5.65],[-0.25,5.55]]]}`)
	require.NoError(t, err)

	inside := []models.StopInput{
		{Latitude: 5.60, Longitude: -0.19},
		{Latitude: 5.62, Longitude: -0.15},
	}
	assert.NoError(t, ValidateStopsInZone(inside, boundary, "ACC-01"))

	mixed := append(inside, models.StopInput{Latitude: 5.80, Longitude: -0.19})
	err = ValidateStopsInZone(mixed, boundary, "ACC-01")
	var oz *OutOfZoneError
	require.ErrorAs(t, err, &oz)
	assert.Equal(t, "ACC-01", oz.ZoneCode)
	assert.Equal(t, 5.80, oz.Latitude)
}

func TestBuildStopsFromPoints(t *testing.T) {
	policy := DefaultPolicy()
	reqID := "odr-1"
	points := []ServicePoint{
		{ClientID: "c1", Location: geo.Point{Latitude: 5.60, Longitude: -0.19}, PropertyType: models.PropertyResidential},
		{ClientID: "c2", Location: geo.Point{Latitude: 5.61, Longitude: -0.19}, PropertyType: models.PropertyCommercial, OnDemandRequestID: &reqID},
		{ClientID: "c3", Location: geo.Point{Latitude: 5.62, Longitude: -0.19}, PropertyType: "industrial"},
	}

	stops := BuildStopsFromPoints("route-1", points, policy)

	require.Len(t, stops, 3)
	for i, s := range stops {
		assert.Equal(t, i+1, s.StopOrder)
		assert.Equal(t, "route-1", s.RouteID)
		assert.Equal(t, models.StopStatusPending, s.Status)
	}
	assert.Equal(t, 5, stops[0].ExpectedMinutes)
	assert.Equal(t, 10, stops[1].ExpectedMinutes)
	assert.Equal(t, 7, stops[2].ExpectedMinutes)

	require.NotNil(t, stops[1].OnDemandRequestID)
	assert.Equal(t, "odr-1", *stops[1].OnDemandRequestID)
	require.NotNil(t, stops[0].ClientID)
	assert.Equal(t, "c1", *stops[0].ClientID)
}
