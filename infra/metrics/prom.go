package metrics

import (
	coremetrics "github.com/kilianp07/staffalloc/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records search runs in Prometheus metrics.
type PromSink struct {
	runs       *prometheus.CounterVec
	duration   prometheus.Histogram
	best       prometheus.Gauge
	iterations *prometheus.CounterVec
}

// NewPromSink registers search metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (coremetrics.SearchSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.SearchSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "search_runs_total",
		Help: "Total number of finished search runs",
	}, []string{"state", "reason"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "search_run_duration_seconds",
		Help:    "Wall time of a search run",
		Buckets: prometheus.DefBuckets,
	})
	best := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "search_run_best_evaluation",
		Help: "Best evaluation reached by the last finished run",
	})
	iterations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "search_iterations_recorded_total",
		Help: "Number of iterations recorded, by move kind",
	}, []string{"move"})

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if best, err = register(reg, best); err != nil {
		return nil, err
	}
	if iterations, err = register(reg, iterations); err != nil {
		return nil, err
	}
	return &PromSink{runs: runs, duration: duration, best: best, iterations: iterations}, nil
}

// register returns the collector already registered under the same
// descriptor, if any.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun counts the run and stores its duration and best evaluation.
func (s *PromSink) RecordRun(r coremetrics.RunRecord) error {
	s.runs.WithLabelValues(r.State, r.Reason).Inc()
	s.duration.Observe(r.Duration.Seconds())
	s.best.Set(r.Best)
	return nil
}

// RecordIteration counts the iteration under the kind of the applied move.
func (s *PromSink) RecordIteration(r coremetrics.IterationRecord) error {
	s.iterations.WithLabelValues(moveKind(r.Move)).Inc()
	return nil
}

func moveKind(move string) string {
	for i, c := range move {
		if c == '(' {
			return move[:i]
		}
	}
	if move == "" {
		return "none"
	}
	return move
}
