package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreQueries counts translation store round trips by operation (fetch_all|fetch_locale|save_batch|soft_delete|purge) and result (ok|error).
	StoreQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translatable_store_queries_total",
			Help: "Total number of translation store queries",
		},
		[]string{"operation", "result"},
	)

	// Resolutions counts attribute reads by outcome (override|fallthrough|ineligible|error).
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translatable_resolutions_total",
			Help: "Total number of translatable attribute reads",
		},
		[]string{"owner_type", "outcome"},
	)

	// CacheRefills counts resolution cache refills per owner type.
	CacheRefills = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translatable_cache_refills_total",
			Help: "Total number of resolution cache refills",
		},
		[]string{"owner_type"},
	)

	// PurgedTranslations counts soft-deleted rows removed by maintenance.
	PurgedTranslations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "translatable_purged_translations_total",
			Help: "Total number of soft-deleted translations permanently removed",
		},
	)

	// StoreLatency measures translation store query latencies.
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "translatable_store_latency_seconds",
			Help:    "Translation store query latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
