// Package metrics holds the Prometheus collectors shared by the assistant
// pipeline, the LLM providers and the housekeeping task.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_turns_total",
			Help: "Completed conversation turns by detected intent and dispatch branch",
		},
		[]string{"intent", "branch"},
	)

	StageDegradations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_stage_degradations_total",
			Help: "Pipeline stages that fell back to a safe default",
		},
		[]string{"stage"},
	)

	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_turn_duration_seconds",
			Help:    "Wall time of one handle_message run",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	CompletionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_completion_requests_total",
			Help: "Text-completion calls by provider and outcome",
		},
		[]string{"provider", "status"},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "llm_completion_duration_seconds",
			Help: "Latency of text-completion calls",
		},
		[]string{"provider"},
	)

	CleanupRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_cleanup_removed_total",
			Help: "Rows deleted by the housekeeping task",
		},
		[]string{"kind"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
