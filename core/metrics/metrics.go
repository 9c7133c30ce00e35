package metrics

import "time"

// RunRecord summarises a finished search run.
type RunRecord struct {
	RunID      string
	State      string
	Reason     string
	Iterations int
	Candidates int
	Initial    float64
	Best       float64
	Duration   time.Duration
	Time       time.Time
}

// SearchSink records run summaries for observability purposes.
type SearchSink interface {
	RecordRun(r RunRecord) error
}

// IterationRecord captures one iteration of a run.
type IterationRecord struct {
	RunID        string
	Iteration    int
	Evaluation   float64
	Best         float64
	Candidates   int
	TabuRejected int
	Aspirated    int
	Move         string
	Elapsed      time.Duration
}

// IterationRecorder is implemented by sinks able to record every iteration.
type IterationRecorder interface {
	RecordIteration(r IterationRecord) error
}

// NopSink implements SearchSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunRecord) error             { return nil }
func (NopSink) RecordIteration(IterationRecord) error { return nil }

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []SearchSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...SearchSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordRun(r RunRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(r); err != nil {
			return err
		}
	}
	return nil
}

// RecordIteration forwards the record to sinks implementing
// IterationRecorder.
func (m *MultiSink) RecordIteration(r IterationRecord) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(IterationRecorder); ok {
			if err := rec.RecordIteration(r); err != nil {
				return err
			}
		}
	}
	return nil
}
