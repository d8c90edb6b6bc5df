// Package metrics holds the service's Prometheus collectors: completion
// calls (ai.go), HTTP traffic (http.go) and the history cache (cache.go).
// Each file enqueues its collectors from init(); MustRegister publishes the
// whole set once at startup, before the /metrics endpoint is mounted.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister registers every enqueued collector exactly once.
func MustRegister() {
	registerOnce.Do(func() {
		if len(pending) > 0 {
			prometheus.MustRegister(pending...)
		}
	})
}
