package artifact

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoadsTotal counts artifact loads that reached storage.
	// Labels: horizon, result (success, error)
	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "collegeroi",
			Subsystem: "artifact",
			Name:      "loads_total",
			Help:      "Total number of artifact loads from storage",
		},
		[]string{"horizon", "result"},
	)

	// LoadDuration tracks how long a full horizon load takes.
	LoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "collegeroi",
			Subsystem: "artifact",
			Name:      "load_duration_seconds",
			Help:      "Duration of horizon artifact loads in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"horizon"},
	)

	// CachedHorizons is the number of horizons currently memoized.
	CachedHorizons = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "collegeroi",
			Subsystem: "artifact",
			Name:      "cached_horizons",
			Help:      "Number of horizons held in the artifact cache",
		},
	)
)
