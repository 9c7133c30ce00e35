package search

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Record is the telemetry line of one iteration.
type Record struct {
	Iteration    int           `json:"iteration"`
	Evaluation   float64       `json:"evaluation"`
	Best         float64       `json:"best"`
	Elapsed      time.Duration `json:"elapsed"`
	Duration     time.Duration `json:"duration"`
	Candidates   int           `json:"candidates"`
	TabuRejected int           `json:"tabu_rejected"`
	Aspirated    int           `json:"aspirated"`
	Move         string        `json:"move"`
}

// Summary aggregates the telemetry of a run.
type Summary struct {
	Iterations      int           `json:"iterations"`
	Initial         float64       `json:"initial"`
	Best            float64       `json:"best"`
	Improvement     float64       `json:"improvement"`
	MeanEvaluation  float64       `json:"mean_evaluation"`
	StdEvaluation   float64       `json:"std_evaluation"`
	WorstEvaluation float64       `json:"worst_evaluation"`
	MeanDuration    time.Duration `json:"mean_duration"`
	StdDuration     time.Duration `json:"std_duration"`
	MeanCandidates  float64       `json:"mean_candidates"`
	TabuRejected    int           `json:"tabu_rejected"`
	Aspirated       int           `json:"aspirated"`
}

// Summarize computes mean and standard deviation of the evaluations and
// iteration durations. Deviations of fewer than two samples are zero.
func Summarize(initial, best float64, recs []Record) Summary {
	s := Summary{Iterations: len(recs), Initial: initial, Best: best, Improvement: best - initial}
	if len(recs) == 0 {
		return s
	}
	evals := make([]float64, len(recs))
	durs := make([]float64, len(recs))
	cands := make([]float64, len(recs))
	for i, r := range recs {
		evals[i] = r.Evaluation
		durs[i] = float64(r.Duration)
		cands[i] = float64(r.Candidates)
		s.TabuRejected += r.TabuRejected
		s.Aspirated += r.Aspirated
	}
	meanEval, stdEval := stat.MeanStdDev(evals, nil)
	meanDur, stdDur := stat.MeanStdDev(durs, nil)
	s.MeanEvaluation = meanEval
	s.MeanDuration = time.Duration(meanDur)
	if len(recs) > 1 {
		s.StdEvaluation = stdEval
		s.StdDuration = time.Duration(stdDur)
	}
	s.WorstEvaluation = floats.Min(evals)
	s.MeanCandidates = stat.Mean(cands, nil)
	return s
}
