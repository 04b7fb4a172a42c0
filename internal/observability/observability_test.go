package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("ingested", "rows", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ingested", entry["msg"])
	assert.Equal(t, float64(3), entry["rows"])
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "text")

	logger.Debug("resolved", "name", "TEMP")

	assert.Contains(t, buf.String(), "msg=resolved")
	assert.Contains(t, buf.String(), "name=TEMP")
}

func TestAPIMetricsRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAPIMetrics(reg)

	m.Requests.WithLabelValues("/everything", "GET", "200").Inc()
	m.ChatRequests.WithLabelValues("ok").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/everything", "GET", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChatRequests.WithLabelValues("ok")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestIngestMetricsUsePrivateRegistry(t *testing.T) {
	a := NewIngestMetrics()
	b := NewIngestMetrics()

	a.RowsInserted.Add(5)

	assert.Equal(t, 5.0, testutil.ToFloat64(a.RowsInserted))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RowsInserted))
}
