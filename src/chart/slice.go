package chart

import (
	"index-dashboard/src/models"
	"index-dashboard/src/utils"

	"time"
)

// -----------------------------------------------------------------------------

// Slice returns the records dated within [start, end], compared as calendar
// days. An inverted range yields an empty slice.
func Slice(series models.MSeries, start, end time.Time) []models.MPriceRecord {
	start = utils.TruncateToDate(start)
	end = utils.TruncateToDate(end)

	out := []models.MPriceRecord{}
	if end.Before(start) {
		return out
	}
	for _, rec := range series.Records {
		d := utils.TruncateToDate(rec.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// -----------------------------------------------------------------------------

// Points projects records onto one field.
func Points(records []models.MPriceRecord, field models.MPriceField) []models.MChartPoint {
	points := make([]models.MChartPoint, 0, len(records))
	for _, rec := range records {
		points = append(points, models.MChartPoint{Date: rec.Date, Value: field.Value(rec)})
	}
	return points
}
