// Package metrics defines and registers the domain Prometheus metrics of the
// Pulse API. HTTP request metrics come from the echoprometheus middleware.
// Metrics register with the default registry through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pulse"

// ── Analysis metrics ──────────────────────────────────────────────────────────

// AnalysesTotal counts analysis runs.
// Labels:
//   - provider: "OPENAI" or "GEMINI"
//   - result: "ok", "empty", "malformed", "upstream_error" or "busy"
var AnalysesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Total number of reputation analysis runs, by result.",
	},
	[]string{"provider", "result"},
)

// RefreshQueueDepth tracks pending background analysis jobs per worker.
// Label:
//   - worker_id: numeric worker index
var RefreshQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "refresh_queue_depth",
		Help:      "Current number of analysis refresh jobs pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// ── LLM metrics ───────────────────────────────────────────────────────────────

// LLMRequestDuration measures outbound provider calls.
// Labels:
//   - provider: "OPENAI" or "GEMINI"
//   - model: requested model name
//   - outcome: "ok", "timeout" or "error"
var LLMRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_request_duration_seconds",
		Help:      "Duration of outbound LLM provider requests.",
		Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 90},
	},
	[]string{"provider", "model", "outcome"},
)

// SuggestionsTotal counts suggestion requests.
// Labels:
//   - kind: "domains" or "competitors"
//   - result: "ok", "empty" or "error"
var SuggestionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "suggestions_total",
		Help:      "Total number of LLM suggestion requests, by kind and result.",
	},
	[]string{"kind", "result"},
)
