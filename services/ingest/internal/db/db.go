package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/floatchat/argo-explorer/services/ingest/internal/models"
)

// Pool is the subset of *pgxpool.Pool the ingest store needs.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store writes measurement records.
type Store struct {
	pool   Pool
	logger *slog.Logger
}

// NewStore wraps a pool.
func NewStore(pool Pool, logger *slog.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

const insertMeasurementSQL = `INSERT INTO argo_measurements (temperature, latitude, longitude, pressure, salinity, oxygen, nitrate, depth, time_ts)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

// InsertFile writes all records derived from one source file inside a
// single transaction. Either every record commits or none do.
func (s *Store) InsertFile(ctx context.Context, path string, records []models.MeasurementRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction for %s: %w", path, err)
	}

	for i, r := range records {
		if _, err := tx.Exec(ctx, insertMeasurementSQL,
			r.Temperature, r.Latitude, r.Longitude, r.Pressure, r.Salinity,
			r.Oxygen, r.Nitrate, r.Depth, r.ObservedAt,
		); err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error("rollback failed", "file", path, "error", rbErr)
			}
			s.logger.Error("error inserting records", "file", path, "row", i, "error", err)
			return 0, fmt.Errorf("insert row %d from %s: %w", i, path, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit %s: %w", path, err)
	}
	return len(records), nil
}
