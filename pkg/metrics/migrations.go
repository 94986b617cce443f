package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MigrationMetrics records boot-time schema migration outcomes.
type MigrationMetrics struct {
	duration prometheus.Histogram
	applied  prometheus.Counter
	failures prometheus.Counter
	version  prometheus.Gauge
}

// NewMigrationMetrics registers the migration metrics on the provided registerer.
func NewMigrationMetrics(reg prometheus.Registerer) *MigrationMetrics {
	if reg == nil {
		return &MigrationMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schema_migration_duration_seconds",
		Help:    "Duration of schema migration runs in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	applied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schema_migrations_applied_total",
		Help: "Migrations applied since process start.",
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schema_migration_failures_total",
		Help: "Migration runs that returned an error.",
	})
	version := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schema_version",
		Help: "Highest applied migration version.",
	})
	reg.MustRegister(duration, applied, failures, version)
	return &MigrationMetrics{
		duration: duration,
		applied:  applied,
		failures: failures,
		version:  version,
	}
}

// ObserveRun records one migration run.
func (m *MigrationMetrics) ObserveRun(duration time.Duration, applied int, failed bool) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(duration.Seconds())
	m.applied.Add(float64(applied))
	if failed {
		m.failures.Inc()
	}
}

// SetVersion publishes the current schema version.
func (m *MigrationMetrics) SetVersion(version int64) {
	if m == nil || m.version == nil {
		return
	}
	m.version.Set(float64(version))
}
