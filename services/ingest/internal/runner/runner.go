package runner

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/floatchat/argo-explorer/internal/observability"
	"github.com/floatchat/argo-explorer/services/ingest/internal/argo"
	"github.com/floatchat/argo-explorer/services/ingest/internal/models"
	"github.com/floatchat/argo-explorer/services/ingest/internal/utils"
)

// FileSource is an opened data file.
type FileSource interface {
	argo.Source
	Close() error
}

// Opener opens the data file at path.
type Opener func(path string) (FileSource, error)

// OpenNetCDF is the production Opener.
func OpenNetCDF(path string) (FileSource, error) {
	return argo.Open(path)
}

// Inserter persists the records of one file atomically.
type Inserter interface {
	InsertFile(ctx context.Context, path string, records []models.MeasurementRecord) (int, error)
}

// Options configures a Runner.
type Options struct {
	Extension string
	Extract   argo.Options
	DryRun    bool
}

// Runner ingests every matching file under a root directory, one file at
// a time.
type Runner struct {
	open    Opener
	store   Inserter
	logger  *slog.Logger
	metrics *observability.IngestMetrics
	clock   clockwork.Clock
	opts    Options
}

// New creates a Runner. store may be nil when opts.DryRun is set.
func New(open Opener, store Inserter, logger *slog.Logger, metrics *observability.IngestMetrics, clock clockwork.Clock, opts Options) *Runner {
	if opts.Extension == "" {
		opts.Extension = ".nc"
	}
	return &Runner{
		open:    open,
		store:   store,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
		opts:    opts,
	}
}

// Run discovers files under root and processes them sequentially. Errors
// in individual files are logged and counted; only discovery errors are
// returned.
func (r *Runner) Run(ctx context.Context, root string) (models.RunSummary, error) {
	start := r.clock.Now()
	summary := models.RunSummary{
		RunID:  uuid.NewString(),
		Root:   root,
		DryRun: r.opts.DryRun,
	}
	logger := r.logger.With("run_id", summary.RunID)
	logger.Info("ingestion root", "root", root, "extension", r.opts.Extension, "dry_run", r.opts.DryRun)

	files, err := utils.DiscoverFiles(root, r.opts.Extension)
	if err != nil {
		return summary, err
	}
	summary.Files = len(files)
	r.metrics.FilesFound.Set(float64(len(files)))

	if len(files) == 0 {
		logger.Info("no matching files found", "root", root)
		summary.Duration = r.clock.Since(start)
		return summary, nil
	}
	logger.Info("starting ingestion", "files", len(files))

	for _, path := range files {
		logger.Info("ingesting", "file", path)
		res := r.processFile(ctx, logger, path)
		summary.FileResult = append(summary.FileResult, res)

		switch {
		case res.Err != nil:
			summary.Failed++
			r.metrics.FilesProcessed.WithLabelValues("failed").Inc()
		case res.Skipped:
			summary.Skipped++
			r.metrics.FilesProcessed.WithLabelValues("skipped").Inc()
		default:
			summary.Ingested++
			summary.TotalRows += res.Inserted
			r.metrics.FilesProcessed.WithLabelValues("ingested").Inc()
			logger.Info("inserted rows", "file", filepath.Base(path), "rows", res.Inserted)
		}
	}

	summary.Duration = r.clock.Since(start)
	r.metrics.RunDuration.Set(summary.Duration.Seconds())
	r.metrics.LastSuccess.Set(float64(r.clock.Now().Unix()))
	logger.Info("all done",
		"total_rows", summary.TotalRows,
		"ingested", summary.Ingested,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)
	return summary, nil
}

func (r *Runner) processFile(ctx context.Context, logger *slog.Logger, path string) models.FileResult {
	res := models.FileResult{Path: path}

	src, err := r.open(path)
	if err != nil {
		logger.Error("cannot read file", "file", path, "error", err)
		res.Err = err
		return res
	}
	ext := argo.Extract(src, r.opts.Extract)
	if err := src.Close(); err != nil {
		logger.Warn("close file", "file", path, "error", err)
	}

	if ext.Skipped {
		logger.Warn("skipping file", "file", path, "reason", ext.SkipReason)
		res.Skipped = true
		res.SkipReason = ext.SkipReason
		return res
	}
	for _, q := range argo.Quantities {
		if rv := ext.Resolved[q]; rv.Found {
			logger.Debug("resolved variable", "file", path, "quantity", q, "name", rv.Name)
		}
	}

	res.Candidates = len(ext.Records)
	r.metrics.RowsDropped.Add(float64(ext.Length - len(ext.Records)))

	if r.opts.DryRun {
		for _, rec := range ext.Records {
			logger.Debug("dry-run: would insert",
				"file", path,
				"temperature", rec.Temperature,
				"pressure", rec.Pressure,
				"oxygen", utils.ValuePtrString(rec.Oxygen),
				"time", utils.TimePtrString(rec.ObservedAt),
			)
		}
		res.Inserted = len(ext.Records)
		return res
	}

	n, err := r.store.InsertFile(ctx, path, ext.Records)
	if err != nil {
		res.Err = err
		return res
	}
	res.Inserted = n
	r.metrics.RowsInserted.Add(float64(n))
	return res
}
