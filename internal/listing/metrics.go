package listing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultHit     = "hit"
	resultMiss    = "miss"
	resultError   = "error"
	resultCorrupt = "corrupt"
	resultOK      = "ok"
)

var (
	lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipe_service",
			Subsystem: "listing_cache",
			Name:      "lookups_total",
			Help:      "Listing cache lookups by outcome (hit, miss, error, corrupt).",
		},
		[]string{"result"},
	)

	invalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipe_service",
			Subsystem: "listing_cache",
			Name:      "invalidations_total",
			Help:      "Invalidate-all calls by outcome.",
		},
		[]string{"result"},
	)

	racedFillsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recipe_service",
			Subsystem: "listing_cache",
			Name:      "raced_fills_total",
			Help:      "Cache fills dropped because a write landed during the store read.",
		},
	)

	pageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recipe_service",
			Subsystem: "listing",
			Name:      "store_page_duration_seconds",
			Help:      "Latency of the single-round-trip page read on a cache miss.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
