package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fuelstation"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// query path and the snapshot build pipeline.
type Metrics struct {
	QueryTotal    *prometheus.CounterVec   // labels: operation={nearby,filter,search,batch,meta}, outcome={ok,error}
	QueryDuration *prometheus.HistogramVec // labels: operation
	CacheLookups  *prometheus.CounterVec   // labels: result={hit,miss}

	RecordsNormalized prometheus.Counter
	RecordsRejected   prometheus.Counter
	DedupGroupsMerged prometheus.Counter

	SnapshotBuildDuration prometheus.Histogram
	SnapshotTotalStations prometheus.Gauge
	SnapshotPublished     prometheus.Counter

	FeedBatches prometheus.Counter
	FeedRecords prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.QueryTotal,
		m.QueryDuration,
		m.CacheLookups,
		m.RecordsNormalized,
		m.RecordsRejected,
		m.DedupGroupsMerged,
		m.SnapshotBuildDuration,
		m.SnapshotTotalStations,
		m.SnapshotPublished,
		m.FeedBatches,
		m.FeedRecords,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		QueryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_total",
			Help:      "Queries served by operation and outcome.",
		}, []string{"operation", "outcome"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query execution time by operation.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		}, []string{"operation"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_lookups_total",
			Help:      "Query cache lookups by result.",
		}, []string{"result"}),
		RecordsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_normalized_total",
			Help:      "Raw feed records accepted by the normalizer.",
		}),
		RecordsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "Raw feed records routed to the invalid bucket.",
		}),
		DedupGroupsMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dedup_groups_merged_total",
			Help:      "Merge groups collapsed by the deduplication engine.",
		}),
		SnapshotBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_build_duration_seconds",
			Help:      "Duration of a complete normalize-dedup-index build pass.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SnapshotTotalStations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_total_stations",
			Help:      "Station count in the currently published snapshot.",
		}),
		SnapshotPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_published_total",
			Help:      "Snapshots published since process start.",
		}),
		FeedBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_batches_total",
			Help:      "Raw feed batches fetched from the configured source.",
		}),
		FeedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_records_total",
			Help:      "Raw feed records fetched from the configured source.",
		}),
	}
}
