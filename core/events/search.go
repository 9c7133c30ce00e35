package events

import "time"

// Progress reports the state of a run after an iteration.
type Progress struct {
	RunID      string
	Iteration  int
	Planned    int
	Evaluation float64
	Best       float64
	Elapsed    time.Duration
}

// Finished is emitted when a run stops or converges. Reason is the name of
// the stop criterion, "converged" or "cancelled".
type Finished struct {
	RunID      string
	State      string
	Reason     string
	Iterations int
	Best       float64
	Elapsed    time.Duration
}
