package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		genLatencyMs,
		genRetries,
		genPromptTokens,
		toolCalls,
	)
}

var (
	genLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generation_latency_ms",
			Help:    "Generation stream latency distribution in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000, 30000, 60000},
		},
		[]string{"provider", "success"},
	)

	genRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_retries_total",
			Help: "Rate-limit retries per provider.",
		},
		[]string{"provider"},
	)

	genPromptTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_prompt_tokens",
			Help: "Best-effort estimate of prompt tokens sent per provider.",
		},
		[]string{"provider"},
	)

	toolCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_tool_calls_total",
			Help: "Auxiliary tool invocations by tool and outcome.",
		},
		[]string{"tool", "success"},
	)
)

func ObserveGeneration(provider string, latencyMs int, success bool) {
	genLatencyMs.WithLabelValues(norm(provider), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func IncGenerationRetry(provider string) {
	genRetries.WithLabelValues(norm(provider)).Inc()
}

func AddPromptTokens(provider string, n int) {
	genPromptTokens.WithLabelValues(norm(provider)).Add(float64(n))
}

func IncToolCall(tool string, success bool) {
	toolCalls.WithLabelValues(norm(tool), strconv.FormatBool(success)).Inc()
}

func norm(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.ToLower(s)
}
