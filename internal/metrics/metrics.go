package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/scan-io-git/pomscan/pkg/shared/files"
)

const namespace = "pomscan"

// Metrics collects counters for a single scan run.
type Metrics struct {
	registry *prometheus.Registry

	repositories *prometheus.CounterVec
	files        *prometheus.CounterVec
	records      prometheus.Counter
	duration     prometheus.Gauge
	lastRun      prometheus.Gauge
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		repositories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repositories_total",
			Help:      "Repositories processed, by outcome.",
		}, []string{"status"}),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Discovered build descriptors, by outcome.",
		}, []string{"status"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Version records written to the report.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall clock duration of the last scan.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last scan finished.",
		}),
	}
	m.registry.MustRegister(m.repositories, m.files, m.records, m.duration, m.lastRun)
	return m
}

// RepositoryScanned counts a repository as ok or failed.
func (m *Metrics) RepositoryScanned(failed bool) {
	m.repositories.WithLabelValues(status(failed)).Inc()
}

// FileProcessed counts a discovered file as ok, empty or failed.
func (m *Metrics) FileProcessed(outcome string) {
	m.files.WithLabelValues(outcome).Inc()
}

// RecordsWritten adds n written records.
func (m *Metrics) RecordsWritten(n int) {
	m.records.Add(float64(n))
}

// ScanFinished records the duration of a finished scan.
func (m *Metrics) ScanFinished(started time.Time) {
	now := time.Now()
	m.duration.Set(now.Sub(started).Seconds())
	m.lastRun.Set(float64(now.Unix()))
}

// WriteTextfile exports the registry in the text exposition format, for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	path, err := files.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %q: %w", path, err)
	}
	return nil
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func status(failed bool) string {
	if failed {
		return "failed"
	}
	return "ok"
}
