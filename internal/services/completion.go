package services

import "borla-backend/internal/models"

// CollectionTypeForStop derives the record type from the stop's linked
// request kind. Unlinked stops fall back to the scheduled type.
func CollectionTypeForStop(stop *models.RouteStop) string {
	switch {
	case stop.OnDemandRequestID != nil:
		return models.CollectionTypeOnDemand
	case stop.ScheduledRequestID != nil:
		return models.CollectionTypeScheduled
	default:
		return models.CollectionTypeScheduled
	}
}

// MergeEvidence folds caller-supplied field evidence into a collection
// record. The record is forced to completed and collected_at is stamped once.
func MergeEvidence(record *models.CollectionRecord, ev models.StopEvidence, now int64) {
	if ev.PaymentMethod != nil {
		record.PaymentMethod = *ev.PaymentMethod
	}
	if ev.AmountPaid != nil {
		record.AmountPaid = *ev.AmountPaid
	}
	if ev.BagCount != nil {
		record.BagCount = *ev.BagCount
	}
	if ev.BinSizeLiters != nil {
		record.BinSizeLiters = ev.BinSizeLiters
	}
	if ev.EstimatedVolumeLiters != nil {
		record.EstimatedVolumeLiters = ev.EstimatedVolumeLiters
	}
	if ev.WasteType != nil {
		record.WasteType = *ev.WasteType
	}
	if ev.PhotoBeforeURL != nil {
		record.PhotoBeforeURL = ev.PhotoBeforeURL
	}
	if ev.PhotoAfterURL != nil {
		record.PhotoAfterURL = ev.PhotoAfterURL
	}
	if ev.SegregationScore != nil {
		record.SegregationScore = ev.SegregationScore
	}
	if ev.Latitude != nil && ev.Longitude != nil {
		record.GPSLatitude = ev.Latitude
		record.GPSLongitude = ev.Longitude
	}
	if ev.Notes != nil {
		record.Notes = ev.Notes
	}

	record.Status = models.RecordStatusCompleted
	if record.CollectedAt == nil {
		record.CollectedAt = &now
	}
	record.UpdatedAt = now
}

// NextCompliancePercent updates a client's rolling segregation compliance
// after a scored collection. The two-point average (old+score)/2 is kept for
// compatibility with the dashboard that consumes it; it is a weighted decay,
// not a true running mean.
func NextCompliancePercent(current float64, score int) float64 {
	return (current + float64(score)) / 2
}
