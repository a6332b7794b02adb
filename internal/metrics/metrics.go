// Package metrics exposes Prometheus metrics for builds, linting and the
// serve daemon.
package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the registered Prometheus collectors.
type Recorder struct {
	registry *prom.Registry

	buildDuration    prom.Histogram
	buildOutcomes    *prom.CounterVec
	lintIssues       *prom.GaugeVec
	httpRequests     *prom.CounterVec
	livereloadGauge  prom.Gauge
	linkCheckResults *prom.CounterVec
}

// NewRecorder constructs and registers the collectors on the given registry
// (a fresh registry when nil).
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	r := &Recorder{registry: reg}
	r.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "restdoc",
		Name:      "build_duration_seconds",
		Help:      "Total article build duration",
		Buckets:   prom.DefBuckets,
	})
	r.buildOutcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "restdoc",
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	r.lintIssues = prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "restdoc",
		Name:      "lint_issues",
		Help:      "Lint issues from the most recent run, by severity",
	}, []string{"severity"})
	r.httpRequests = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "restdoc",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"route", "code"})
	r.livereloadGauge = prom.NewGauge(prom.GaugeOpts{
		Namespace: "restdoc",
		Name:      "livereload_clients",
		Help:      "Currently connected livereload clients",
	})
	r.linkCheckResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "restdoc",
		Name:      "linkcheck_results_total",
		Help:      "External link check results by outcome",
	}, []string{"result"})

	reg.MustRegister(
		r.buildDuration,
		r.buildOutcomes,
		r.lintIssues,
		r.httpRequests,
		r.livereloadGauge,
		r.linkCheckResults,
	)
	return r
}

// Registry returns the underlying registry for the /metrics handler.
func (r *Recorder) Registry() *prom.Registry { return r.registry }

// ObserveBuild records a completed build.
func (r *Recorder) ObserveBuild(seconds float64, outcome string) {
	r.buildDuration.Observe(seconds)
	r.buildOutcomes.WithLabelValues(outcome).Inc()
}

// SetLintIssues records the issue counts of the latest lint run.
func (r *Recorder) SetLintIssues(severity string, count int) {
	r.lintIssues.WithLabelValues(severity).Set(float64(count))
}

// CountRequest records one HTTP request.
func (r *Recorder) CountRequest(route, code string) {
	r.httpRequests.WithLabelValues(route, code).Inc()
}

// SetLivereloadClients records the current SSE client count.
func (r *Recorder) SetLivereloadClients(n int) {
	r.livereloadGauge.Set(float64(n))
}

// CountLinkCheck records one external link verdict.
func (r *Recorder) CountLinkCheck(result string) {
	r.linkCheckResults.WithLabelValues(result).Inc()
}
