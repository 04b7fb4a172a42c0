package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/floatchat/argo-explorer/internal/database"
)

// FillMagnitude is the smallest absolute value treated as an ARGO fill
// reading rather than a measurement.
const FillMagnitude = 99999.0

// ErrUnknownMetric is returned for a metric outside Metrics.
var ErrUnknownMetric = errors.New("unknown metric")

// Metrics lists the single-quantity routes in registration order.
var Metrics = []string{"temperature", "pressure", "salinity", "oxygen", "nitrate", "depth", "time"}

var metricColumns = map[string]string{
	"temperature": "temperature",
	"pressure":    "pressure",
	"salinity":    "salinity",
	"oxygen":      "oxygen",
	"nitrate":     "nitrate",
	"depth":       "depth",
	"time":        "time_ts",
}

// MetricColumn returns the column served for metric.
func MetricColumn(metric string) (string, bool) {
	col, ok := metricColumns[metric]
	return col, ok
}

// MetricPoint is a located reading of one quantity. It serialises as
// {"latitude", "longitude", <column>}.
type MetricPoint struct {
	Latitude  float64
	Longitude float64
	Column    string
	Value     *float64
	Time      *time.Time
}

func (p MetricPoint) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"latitude":  p.Latitude,
		"longitude": p.Longitude,
	}
	if p.Column == "time_ts" {
		out[p.Column] = p.Time
	} else {
		out[p.Column] = p.Value
	}
	return json.Marshal(out)
}

func metricSQL(col string) string {
	query := strings.Builder{}
	query.WriteString("SELECT latitude, longitude, " + col + " ")
	query.WriteString("FROM " + database.Table + " ")
	query.WriteString("WHERE latitude IS NOT NULL AND longitude IS NOT NULL AND " + col + " IS NOT NULL ")
	query.WriteString("ORDER BY time_ts ASC, latitude ASC, longitude ASC ")
	query.WriteString("LIMIT $1")
	return query.String()
}

// MetricPoints returns located readings of one metric.
func (s *Store) MetricPoints(ctx context.Context, metric string) ([]MetricPoint, error) {
	col, ok := MetricColumn(metric)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}

	rows, err := s.pool.Query(ctx, metricSQL(col), MetricLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]MetricPoint, 0)
	for rows.Next() {
		p := MetricPoint{Column: col}
		var target any = &p.Value
		if col == "time_ts" {
			target = &p.Time
		}
		if err := rows.Scan(&p.Latitude, &p.Longitude, target); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// SummaryQuantities are aggregated by RegionSummary, in report order.
var SummaryQuantities = []string{"temperature", "pressure", "salinity", "oxygen", "nitrate", "depth"}

// Stat holds fill-excluding aggregates of one quantity; nil when no
// in-region row has a reading.
type Stat struct {
	Min *float64 `json:"min"`
	Avg *float64 `json:"avg"`
	Max *float64 `json:"max"`
}

// RegionSummary describes the rows inside a Region.
type RegionSummary struct {
	Count     int64           `json:"count"`
	Stats     map[string]Stat `json:"stats"`
	FirstTime *time.Time      `json:"first_time"`
	LastTime  *time.Time      `json:"last_time"`
}

func regionSummarySQL() string {
	query := strings.Builder{}
	query.WriteString("SELECT COUNT(*)")
	for _, q := range SummaryQuantities {
		for _, agg := range []string{"MIN", "AVG", "MAX"} {
			fmt.Fprintf(&query, ", %s(%s) FILTER (WHERE abs(%s) < %v)", agg, q, q, FillMagnitude)
		}
	}
	query.WriteString(", MIN(time_ts), MAX(time_ts) ")
	query.WriteString("FROM " + database.Table + " ")
	query.WriteString("WHERE latitude BETWEEN $1 AND $2 AND longitude BETWEEN $3 AND $4")
	return query.String()
}

// RegionSummary aggregates every row inside r.
func (s *Store) RegionSummary(ctx context.Context, r Region) (RegionSummary, error) {
	minLat, maxLat, minLon, maxLon := r.Bounds()
	sum := RegionSummary{Stats: make(map[string]Stat, len(SummaryQuantities))}

	vals := make([]*float64, 3*len(SummaryQuantities))
	dest := make([]any, 0, len(vals)+3)
	dest = append(dest, &sum.Count)
	for i := range vals {
		dest = append(dest, &vals[i])
	}
	dest = append(dest, &sum.FirstTime, &sum.LastTime)

	if err := s.pool.QueryRow(ctx, regionSummarySQL(), minLat, maxLat, minLon, maxLon).Scan(dest...); err != nil {
		return RegionSummary{}, err
	}

	for i, q := range SummaryQuantities {
		sum.Stats[q] = Stat{Min: vals[3*i], Avg: vals[3*i+1], Max: vals[3*i+2]}
	}
	return sum, nil
}
