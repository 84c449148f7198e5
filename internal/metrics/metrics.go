// Package metrics exports Prometheus counters/histograms for the support
// bot's poll loop, classifier calls, escalations, and janitor sweeps,
// grounded on ai/metrics/prometheus.go's registry-plus-vectors pattern
// (spec.md §9's "ADD Metrics" note).
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter holds every metric the engine, classifier, escalation, and
// janitor packages record against.
type Exporter struct {
	registry *prometheus.Registry

	pollTicks        prometheus.Counter
	ticketsProcessed *prometheus.CounterVec
	classifierCalls  *prometheus.CounterVec
	classifierLatency prometheus.Histogram
	escalations      *prometheus.CounterVec
	janitorSweeps    *prometheus.CounterVec
	janitorDeletions prometheus.Counter
}

var latencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

// New builds an Exporter with its own registry.
func New() *Exporter {
	registry := prometheus.NewRegistry()

	e := &Exporter{
		registry: registry,
		pollTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "supportbot",
			Subsystem: "engine",
			Name:      "poll_ticks_total",
			Help:      "Total number of poll-loop ticks run.",
		}),
		ticketsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supportbot",
			Subsystem: "engine",
			Name:      "tickets_processed_total",
			Help:      "Total tickets dispatched to a subroutine, by outcome.",
		}, []string{"subroutine", "outcome"}),
		classifierCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supportbot",
			Subsystem: "classifier",
			Name:      "calls_total",
			Help:      "Total classifier calls, by prompt kind and outcome.",
		}, []string{"prompt", "outcome"}),
		classifierLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "supportbot",
			Subsystem: "classifier",
			Name:      "latency_seconds",
			Help:      "Classifier call latency in seconds.",
			Buckets:   latencyBuckets,
		}),
		escalations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supportbot",
			Subsystem: "escalation",
			Name:      "total",
			Help:      "Total escalations, by outcome.",
		}, []string{"outcome"}),
		janitorSweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supportbot",
			Subsystem: "janitor",
			Name:      "sweeps_total",
			Help:      "Total janitor sweep runs, by outcome.",
		}, []string{"outcome"}),
		janitorDeletions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "supportbot",
			Subsystem: "janitor",
			Name:      "groups_deleted_total",
			Help:      "Total operator groups deleted by the janitor.",
		}),
	}

	registry.MustRegister(
		e.pollTicks,
		e.ticketsProcessed,
		e.classifierCalls,
		e.classifierLatency,
		e.escalations,
		e.janitorSweeps,
		e.janitorDeletions,
	)
	return e
}

// Handler returns the Prometheus scrape handler for this exporter's registry.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

func (e *Exporter) RecordPollTick() {
	e.pollTicks.Inc()
}

func (e *Exporter) RecordTicketProcessed(subroutine string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	e.ticketsProcessed.WithLabelValues(subroutine, outcome).Inc()
}

func (e *Exporter) RecordClassifierCall(prompt string, latency time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	e.classifierCalls.WithLabelValues(prompt, outcome).Inc()
	e.classifierLatency.Observe(latency.Seconds())
}

func (e *Exporter) RecordEscalation(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	e.escalations.WithLabelValues(outcome).Inc()
}

func (e *Exporter) RecordJanitorSweep(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	e.janitorSweeps.WithLabelValues(outcome).Inc()
}

func (e *Exporter) RecordJanitorDeletion() {
	e.janitorDeletions.Inc()
}
