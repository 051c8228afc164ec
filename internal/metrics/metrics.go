// Package metrics exposes Prometheus instrumentation for the pipeline.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StreamEvents counts parsed stream events by type (agent_selected,
	// chunk, error, done).
	StreamEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lifeos",
		Subsystem: "stream",
		Name:      "events_total",
		Help:      "Stream events parsed from the orchestrator, by event type.",
	}, []string{"type"})

	// StreamsStarted counts relays opened to the orchestrator.
	StreamsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lifeos",
		Subsystem: "stream",
		Name:      "started_total",
		Help:      "Streams opened to the orchestrator.",
	})

	// Classifications counts resolved agents per source of truth.
	Classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lifeos",
		Subsystem: "classifier",
		Name:      "resolutions_total",
		Help:      "Agent classifications, by resolved agent key.",
	}, []string{"agent"})

	// Saves counts save attempts by records domain and outcome
	// (saved, failed, skipped).
	Saves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lifeos",
		Subsystem: "save",
		Name:      "attempts_total",
		Help:      "Save attempts routed to the records API, by domain and outcome.",
	}, []string{"domain", "outcome"})

	// StreamDuration observes end-to-end stream relay time.
	StreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lifeos",
		Subsystem: "stream",
		Name:      "duration_seconds",
		Help:      "End-to-end duration of orchestrator stream relays.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)

// Handler returns the /metrics scrape endpoint as a gin handler.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
