package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(cacheHits, cacheMisses)
}

var (
	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "history_cache_hits_total",
			Help: "History cache hits.",
		},
	)

	cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "history_cache_misses_total",
			Help: "History cache misses.",
		},
	)
)

func IncCacheHit()  { cacheHits.Inc() }
func IncCacheMiss() { cacheMisses.Inc() }
