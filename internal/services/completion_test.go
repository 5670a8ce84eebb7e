package services

import (
	"testing"

	"borla-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestCollectionTypeForStop(t *testing.T) {
	odr := "odr-1"
	sr := "sr-1"

	assert.Equal(t, models.CollectionTypeOnDemand, CollectionTypeForStop(&models.RouteStop{OnDemandRequestID: &odr}))
	assert.Equal(t, models.CollectionTypeScheduled, CollectionTypeForStop(&models.RouteStop{ScheduledRequestID: &sr}))
	assert.Equal(t, models.CollectionTypeScheduled, CollectionTypeForStop(&models.RouteStop{}))
}

func TestMergeEvidence(t *testing.T) {
	record := models.CollectionRecord{
		ID:            "rec-1",
		PaymentMethod: "later",
		WasteType:     "general",
		Status:        models.RecordStatusInProgress,
	}

	ev := models.StopEvidence{
		PaymentMethod:    strPtr("momo"),
		AmountPaid:       floatPtr(25),
		BagCount:         intPtr(3),
		SegregationScore: intPtr(80),
		Latitude:         floatPtr(5.6037),
		Longitude:        floatPtr(-0.1870),
	}

	MergeEvidence(&record, ev, 1700000000)

	assert.Equal(t, "momo", record.PaymentMethod)
	assert.Equal(t, 25.0, record.AmountPaid)
	assert.Equal(t, 3, record.BagCount)
	require.NotNil(t, record.SegregationScore)
	assert.Equal(t, 80, *record.SegregationScore)
	require.NotNil(t, record.GPSLatitude)
	assert.Equal(t, 5.6037, *record.GPSLatitude)

	// untouched fields keep their values
	assert.Equal(t, "general", record.WasteType)

	assert.Equal(t, models.RecordStatusCompleted, record.Status)
	require.NotNil(t, record.CollectedAt)
	assert.Equal(t, int64(1700000000), *record.CollectedAt)
}

func TestMergeEvidenceStampsCollectedAtOnce(t *testing.T) {
	earlier := int64(1600000000)
	record := models.CollectionRecord{CollectedAt: &earlier}

	MergeEvidence(&record, models.StopEvidence{}, 1700000000)

	assert.Equal(t, earlier, *record.CollectedAt)
	assert.Equal(t, int64(1700000000), record.UpdatedAt)
}

func TestMergeEvidenceIgnoresHalfCoordinate(t *testing.T) {
	record := models.CollectionRecord{}
	MergeEvidence(&record, models.StopEvidence{Latitude: floatPtr(5.6)}, 1700000000)
	assert.Nil(t, record.GPSLatitude)
	assert.Nil(t, record.GPSLongitude)
}

func TestNextCompliancePercent(t *testing.T) {
	assert.Equal(t, 90.0, NextCompliancePercent(80, 100))
	assert.Equal(t, 50.0, NextCompliancePercent(100, 0))
	assert.Equal(t, 100.0, NextCompliancePercent(100, 100))
}
