package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "argo"

// APIMetrics holds the Prometheus collectors for the REST API.
type APIMetrics struct {
	Requests        *prometheus.CounterVec   // labels: route, method, status
	RequestDuration *prometheus.HistogramVec // labels: route, method
	RowsReturned    *prometheus.CounterVec   // labels: route
	ChatRequests    *prometheus.CounterVec   // labels: outcome={ok,bad_request,unavailable,error}
}

// NewAPIMetrics creates the API collectors and registers them with reg.
func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	m := &APIMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"route", "method"}),
		RowsReturned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "rows_returned_total",
			Help:      "Measurement rows returned by query routes.",
		}, []string{"route"}),
		ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "chat_requests_total",
			Help:      "Chat assistant requests by outcome.",
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(m.Requests, m.RequestDuration, m.RowsReturned, m.ChatRequests)
	}
	return m
}

// IngestMetrics holds the collectors for one ingestion run.
type IngestMetrics struct {
	Registry       *prometheus.Registry
	FilesFound     prometheus.Gauge
	FilesProcessed *prometheus.CounterVec // labels: outcome={ingested,skipped,failed}
	RowsInserted   prometheus.Counter
	RowsDropped    prometheus.Counter
	RunDuration    prometheus.Gauge
	LastSuccess    prometheus.Gauge
}

// NewIngestMetrics creates ingest collectors on a private registry so the
// run can be pushed as one job.
func NewIngestMetrics() *IngestMetrics {
	m := &IngestMetrics{
		Registry: prometheus.NewRegistry(),
		FilesFound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "files_found",
			Help:      "Source files discovered under the ingestion root.",
		}),
		FilesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "files_processed_total",
			Help:      "Source files processed by outcome.",
		}, []string{"outcome"}),
		RowsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "rows_inserted_total",
			Help:      "Measurement rows committed.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "rows_dropped_total",
			Help:      "Indexes dropped for missing or NaN required readings.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last ingestion run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last run completed.",
		}),
	}

	m.Registry.MustRegister(
		m.FilesFound,
		m.FilesProcessed,
		m.RowsInserted,
		m.RowsDropped,
		m.RunDuration,
		m.LastSuccess,
	)
	return m
}

// Push sends the run's metrics to a Prometheus Pushgateway.
func (m *IngestMetrics) Push(gatewayURL, job string) error {
	return push.New(gatewayURL, job).Gatherer(m.Registry).Push()
}
