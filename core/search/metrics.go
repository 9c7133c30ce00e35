package search

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	iterationsTotal  prometheus.Counter
	candidatesScored prometheus.Counter
	tabuRejected     prometheus.Counter
	aspirated        prometheus.Counter
	iterationLatency prometheus.Histogram
	bestEvaluation   prometheus.Gauge
	runsTotal        *prometheus.CounterVec
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, prometheus.Counter, prometheus.Counter, prometheus.Counter, prometheus.Histogram, prometheus.Gauge, *prometheus.CounterVec) {
	iters := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tabu_search_iterations_total",
		Help: "Number of completed tabu search iterations",
	})
	scored := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tabu_search_candidates_scored_total",
		Help: "Number of neighbourhood candidates evaluated",
	})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tabu_search_tabu_rejected_total",
		Help: "Number of candidates rejected by the tabu list",
	})
	asp := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tabu_search_aspirated_total",
		Help: "Number of tabu candidates admitted by an aspiration criterion",
	})
	lat := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tabu_search_iteration_duration_seconds",
		Help:    "Wall time of one tabu search iteration",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
	best := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tabu_search_best_evaluation",
		Help: "Best evaluation of the running search",
	})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tabu_search_runs_total",
		Help: "Number of finished runs by terminal state",
	}, []string{"state"})
	return iters, scored, rejected, asp, lat, best, runs
}

func init() {
	iterationsTotal, candidatesScored, tabuRejected, aspirated, iterationLatency, bestEvaluation, runsTotal = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers search metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(iterationsTotal, candidatesScored, tabuRejected, aspirated, iterationLatency, bestEvaluation, runsTotal)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	iterationsTotal, candidatesScored, tabuRejected, aspirated, iterationLatency, bestEvaluation, runsTotal = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
