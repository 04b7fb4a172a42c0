package http

import (
	"math"

	"github.com/floatchat/argo-explorer/services/api/db"
)

// normalizeValue zeroes non-finite and fill-magnitude readings. Absent
// readings stay absent.
func normalizeValue(v *float64) *float64 {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || math.Abs(*v) >= db.FillMagnitude {
		zero := 0.0
		return &zero
	}
	return v
}

// normalizeMeasurements rewrites the measurement fields in place.
// Latitude and longitude pass through.
func normalizeMeasurements(rows []db.Measurement) {
	for i := range rows {
		m := &rows[i]
		m.Temperature = normalizeValue(m.Temperature)
		m.Pressure = normalizeValue(m.Pressure)
		m.Salinity = normalizeValue(m.Salinity)
		m.Oxygen = normalizeValue(m.Oxygen)
		m.Nitrate = normalizeValue(m.Nitrate)
		m.Depth = normalizeValue(m.Depth)
	}
}

func normalizeMetricPoints(points []db.MetricPoint) {
	for i := range points {
		points[i].Value = normalizeValue(points[i].Value)
	}
}
