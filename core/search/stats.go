package search

// Stats is the running state consulted by stop and aspiration criteria.
// Counters are updated after each completed iteration.
type Stats struct {
	// Iteration is the number of completed iterations.
	Iteration         int
	BestEvaluation    float64
	CurrentEvaluation float64
	// SinceImproved counts iterations since the best evaluation strictly
	// increased.
	SinceImproved int
	// SinceBestChanged counts iterations since the best solution was
	// replaced, including replacements by an equally scored assignment.
	SinceBestChanged int
	// SinceNeighborChanged counts consecutive iterations whose selected
	// neighbour had the same evaluation as the current solution.
	SinceNeighborChanged int
}
