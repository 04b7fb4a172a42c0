package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/floatchat/argo-explorer/internal/database"
)

// Row caps per route.
const (
	EverythingLimit = 100
	LocationLimit   = 50
	MetricLimit     = 5000
	ProfileLimit    = 5000
)

// Querier is satisfied by *pgxpool.Pool.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Store wraps database access helpers.
type Store struct {
	pool Querier
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := database.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// NewWithPool creates a Store over an existing pool.
func NewWithPool(pool Querier) *Store {
	return &Store{pool: pool}
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// EnsureSchema creates or upgrades the measurements table.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return database.EnsureSchema(ctx, s.pool)
}

// Measurement is one stored row.
type Measurement struct {
	ID          int64      `json:"id"`
	Temperature *float64   `json:"temperature"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	Pressure    *float64   `json:"pressure"`
	Salinity    *float64   `json:"salinity"`
	Oxygen      *float64   `json:"oxygen"`
	Nitrate     *float64   `json:"nitrate"`
	Depth       *float64   `json:"depth"`
	TimeTS      *time.Time `json:"time_ts"`
	CreatedAt   *time.Time `json:"created_at"`
}

const measurementColumns = `id, temperature, latitude, longitude, pressure, salinity, oxygen, nitrate, depth, time_ts, created_at`

var everythingSQL = `
    SELECT ` + measurementColumns + `
    FROM ` + database.Table + `
    ORDER BY time_ts ASC, latitude ASC, longitude ASC
    LIMIT $1
`

var atLocationSQL = `
    SELECT ` + measurementColumns + `
    FROM ` + database.Table + `
    WHERE latitude = $1 AND longitude = $2
    ORDER BY time_ts ASC, depth ASC
    LIMIT $3
`

var profilesSQL = `
    SELECT ` + measurementColumns + `
    FROM ` + database.Table + `
    WHERE latitude BETWEEN $1 AND $2
      AND longitude BETWEEN $3 AND $4
    ORDER BY time_ts ASC, depth ASC
    LIMIT $5
`

// Everything returns the first rows in time, latitude, longitude order.
func (s *Store) Everything(ctx context.Context) ([]Measurement, error) {
	return s.queryMeasurements(ctx, everythingSQL, EverythingLimit)
}

// AtLocation returns rows recorded at exactly lat/lon, shallowest first
// within each timestamp.
func (s *Store) AtLocation(ctx context.Context, lat, lon float64) ([]Measurement, error) {
	return s.queryMeasurements(ctx, atLocationSQL, lat, lon, LocationLimit)
}

// Region is a bounding box of half-width RangeDeg around a center point.
type Region struct {
	Lat      float64
	Lon      float64
	RangeDeg float64
}

// Bounds returns the inclusive latitude and longitude limits.
func (r Region) Bounds() (minLat, maxLat, minLon, maxLon float64) {
	return r.Lat - r.RangeDeg, r.Lat + r.RangeDeg, r.Lon - r.RangeDeg, r.Lon + r.RangeDeg
}

// Profiles returns rows inside the region ordered by time then depth.
func (s *Store) Profiles(ctx context.Context, r Region) ([]Measurement, error) {
	minLat, maxLat, minLon, maxLon := r.Bounds()
	return s.queryMeasurements(ctx, profilesSQL, minLat, maxLat, minLon, maxLon, ProfileLimit)
}

func (s *Store) queryMeasurements(ctx context.Context, sql string, args ...any) ([]Measurement, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Measurement, 0)
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(
			&m.ID,
			&m.Temperature,
			&m.Latitude,
			&m.Longitude,
			&m.Pressure,
			&m.Salinity,
			&m.Oxygen,
			&m.Nitrate,
			&m.Depth,
			&m.TimeTS,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
