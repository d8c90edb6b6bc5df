package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		completionTokensIn,
		completionTokensOut,
		completionTokensTotal,
		completionLatencyMs,
		chipsParseFailures,
	)
}

var (
	completionTokensIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_tokens_in",
			Help: "Sum of prompt (input) tokens per provider/model.",
		},
		[]string{"provider", "model"},
	)

	completionTokensOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_tokens_out",
			Help: "Sum of completion (output) tokens per provider/model.",
		},
		[]string{"provider", "model"},
	)

	completionTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_tokens_total",
			Help: "Sum of total tokens per provider/model.",
		},
		[]string{"provider", "model"},
	)

	completionLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "completion_latency_ms",
			Help:    "Completion call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"provider", "model", "success"},
	)

	chipsParseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chips_parse_failures_total",
			Help: "Count of chip generations that produced no usable suggestions.",
		},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func ObserveCompletion(provider, model string, tokensIn, tokensOut, tokensTotal int, latencyMs int64, success bool) {
	lbl := []string{norm(provider), norm(model)}
	completionTokensIn.WithLabelValues(lbl...).Add(float64(tokensIn))
	completionTokensOut.WithLabelValues(lbl...).Add(float64(tokensOut))
	completionTokensTotal.WithLabelValues(lbl...).Add(float64(tokensTotal))
	completionLatencyMs.WithLabelValues(norm(provider), norm(model), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func IncChipsParseFailure() {
	chipsParseFailures.Inc()
}
