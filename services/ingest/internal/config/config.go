package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/floatchat/argo-explorer/internal/database"
	"github.com/floatchat/argo-explorer/services/ingest/internal/argo"
)

const (
	defaultRoot      = "Argo data"
	defaultExtension = ".nc"
)

// Config holds runtime configuration for the ingestion job.
type Config struct {
	DatabaseURL          string
	Root                 string
	Extension            string
	EpochMillisThreshold float64
	PushgatewayURL       string
	DryRun               bool
	LogLevel             string
	LogFormat            string
}

// Load reads configuration from environment variables (optionally .env).
// args are the command-line arguments after the program name: --dir <path>
// or the first positional argument selects the ingestion root.
func Load(args []string) (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		Root:                 defaultRoot,
		Extension:            defaultExtension,
		EpochMillisThreshold: argo.DefaultEpochMillisThreshold,
		LogLevel:             "info",
		LogFormat:            "text",
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	if !cfg.DryRun {
		u, err := database.URLFromEnv()
		if err != nil {
			return cfg, err
		}
		cfg.DatabaseURL = u
	}

	if v := strings.TrimSpace(os.Getenv("INGEST_DIR")); v != "" {
		cfg.Root = v
	}
	root, err := RootFromArgs(args)
	if err != nil {
		return cfg, err
	}
	if root != "" {
		cfg.Root = root
	}

	if v := strings.TrimSpace(os.Getenv("INGEST_EXTENSION")); v != "" {
		if !strings.HasPrefix(v, ".") {
			v = "." + v
		}
		cfg.Extension = v
	}

	if v := strings.TrimSpace(os.Getenv("INGEST_EPOCH_MS_THRESHOLD")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return cfg, fmt.Errorf("invalid INGEST_EPOCH_MS_THRESHOLD: %s", v)
		}
		cfg.EpochMillisThreshold = f
	}

	cfg.PushgatewayURL = strings.TrimSpace(os.Getenv("PUSHGATEWAY_URL"))

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.LogFormat = v
	}

	return cfg, nil
}

// RootFromArgs returns the --dir flag value, else the first positional
// argument, else "".
func RootFromArgs(args []string) (string, error) {
	fs := pflag.NewFlagSet("ingest", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dir := fs.String("dir", "", "directory scanned recursively for NetCDF files")
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}
	if *dir != "" {
		return *dir, nil
	}
	return fs.Arg(0), nil
}
