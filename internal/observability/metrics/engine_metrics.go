package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics tracks the snapshot engine and its derived caches.
type EngineMetrics struct {
	snapshotProcessed *prometheus.CounterVec
	batchDuration     *prometheus.HistogramVec
	batchSucceeded    *prometheus.GaugeVec
	batchFailed       *prometheus.GaugeVec
	cacheLookups      *prometheus.CounterVec
}

var (
	engineMetricsOnce sync.Once
	engineMetrics     *EngineMetrics
)

// Engine returns the process-wide engine metric set.
func Engine() *EngineMetrics {
	return EngineWithConfig(Config{})
}

// EngineWithConfig initializes the engine metric set on first use.
func EngineWithConfig(cfg Config) *EngineMetrics {
	engineMetricsOnce.Do(func() {
		engineMetrics = newEngineMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return engineMetrics
}

// ResetEngineMetricsForTest clears the singleton between test registries.
func ResetEngineMetricsForTest() {
	engineMetricsOnce = sync.Once{}
	engineMetrics = nil
}

func newEngineMetrics(registerer prometheus.Registerer, cfg Config) *EngineMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "careertrail"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	snapshotProcessed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "careertrail_snapshot_processed_total",
			Help:        "Total member snapshots processed by batch runs.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // success | failed | timeout
	)

	batchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "careertrail_snapshot_batch_duration_seconds",
			Help: "Wall time of one batch snapshot run.",
			Buckets: []float64{
				1, 5, 15, 60, 300, 900, 1800,
			},
			ConstLabels: constLabels,
		},
		[]string{"period_type"},
	)

	batchSucceeded := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:        "careertrail_snapshot_batch_succeeded",
			Help:        "Members that succeeded in the most recent batch run.",
			ConstLabels: constLabels,
		},
		[]string{"period_type"},
	)

	batchFailed := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:        "careertrail_snapshot_batch_failed",
			Help:        "Members that failed in the most recent batch run.",
			ConstLabels: constLabels,
		},
		[]string{"period_type"},
	)

	cacheLookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "careertrail_derived_cache_lookups_total",
			Help:        "Derived cache lookups by artifact kind and outcome.",
			ConstLabels: constLabels,
		},
		[]string{"kind", "result"}, // hit | stale | expired | miss
	)

	registerer.MustRegister(
		snapshotProcessed,
		batchDuration,
		batchSucceeded,
		batchFailed,
		cacheLookups,
	)

	return &EngineMetrics{
		snapshotProcessed: snapshotProcessed,
		batchDuration:     batchDuration,
		batchSucceeded:    batchSucceeded,
		batchFailed:       batchFailed,
		cacheLookups:      cacheLookups,
	}
}

// IncSnapshotProcessed counts one member's snapshot outcome.
func (m *EngineMetrics) IncSnapshotProcessed(result string) {
	if m == nil {
		return
	}
	m.snapshotProcessed.WithLabelValues(result).Inc()
}

// ObserveBatchRun records one completed batch run.
func (m *EngineMetrics) ObserveBatchRun(periodType string, elapsed time.Duration, succeeded, failed int) {
	if m == nil {
		return
	}
	m.batchDuration.WithLabelValues(periodType).Observe(elapsed.Seconds())
	m.batchSucceeded.WithLabelValues(periodType).Set(float64(succeeded))
	m.batchFailed.WithLabelValues(periodType).Set(float64(failed))
}

// IncCacheLookup counts one derived-cache lookup outcome.
func (m *EngineMetrics) IncCacheLookup(kind, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(kind, result).Inc()
}
