package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Table holds one row per ARGO depth/cycle observation.
const Table = "argo_measurements"

const createTableSQL = `
CREATE TABLE IF NOT EXISTS argo_measurements (
    id SERIAL PRIMARY KEY,
    temperature DOUBLE PRECISION,
    latitude DOUBLE PRECISION,
    longitude DOUBLE PRECISION,
    pressure DOUBLE PRECISION,
    salinity DOUBLE PRECISION,
    oxygen DOUBLE PRECISION,
    nitrate DOUBLE PRECISION,
    depth DOUBLE PRECISION,
    time_ts TIMESTAMPTZ,
    created_at TIMESTAMPTZ DEFAULT NOW()
)`

// Columns added after the first deployments.
const alterTableSQL = `
ALTER TABLE argo_measurements
    ADD COLUMN IF NOT EXISTS oxygen DOUBLE PRECISION,
    ADD COLUMN IF NOT EXISTS nitrate DOUBLE PRECISION,
    ADD COLUMN IF NOT EXISTS depth DOUBLE PRECISION,
    ADD COLUMN IF NOT EXISTS time_ts TIMESTAMPTZ`

var indexSQL = []string{
	"CREATE INDEX IF NOT EXISTS idx_argo_measurements_time_lat_lon ON argo_measurements (time_ts, latitude, longitude)",
	"CREATE INDEX IF NOT EXISTS idx_argo_measurements_lat_lon ON argo_measurements (latitude, longitude)",
}

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnsureSchema creates the measurements table and brings older tables up
// to date. It is safe to run repeatedly.
func EnsureSchema(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create table %s: %w", Table, err)
	}
	if _, err := db.Exec(ctx, alterTableSQL); err != nil {
		return fmt.Errorf("alter table %s: %w", Table, err)
	}
	for _, stmt := range indexSQL {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
