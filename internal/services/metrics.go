package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/SatyaPujith/Spotlight/internal/yelp"
)

var (
	// chat turns by the path that produced the reply
	chatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotlight_chat_turns_total",
			Help: "Total number of chat turns by resolution path",
		},
		[]string{"path"},
	)

	chatCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotlight_chat_cache_lookups_total",
			Help: "Response cache lookups by result",
		},
		[]string{"result"},
	)

	upstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotlight_upstream_calls_total",
			Help: "Generative model calls by round and outcome",
		},
		[]string{"round", "outcome"},
	)

	upstreamCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spotlight_upstream_call_duration_seconds",
			Help:    "Generative model call latency in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"round"},
	)

	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotlight_tool_calls_total",
			Help: "Tool calls executed for the model",
		},
		[]string{"tool"},
	)

	directorySearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotlight_directory_searches_total",
			Help: "Business directory searches by how they were answered",
		},
		[]string{"outcome"},
	)
)

func observeUpstream(round string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamCallsTotal.WithLabelValues(round, outcome).Inc()
	upstreamCallDuration.WithLabelValues(round).Observe(elapsed.Seconds())
}

// ObserveDirectorySearch records how a directory search was answered.
// It is passed to yelp.WithObserver.
func ObserveDirectorySearch(outcome yelp.Outcome) {
	directorySearchesTotal.WithLabelValues(string(outcome)).Inc()
}
