package search

import (
	"fmt"

	"github.com/kilianp07/staffalloc/core/factory"
)

// StopCriterion ends a run. Active criteria are OR-ed after every
// iteration.
type StopCriterion interface {
	Name() string
	Active() bool
	Stop(s Stats) bool
}

// AspirationCriterion may admit a tabu candidate. It is only consulted for
// candidates the tabu list rejects.
type AspirationCriterion interface {
	Name() string
	Active() bool
	Admit(score float64, s Stats) bool
}

type limited struct {
	name   string
	active bool
	limit  int
}

// Name is the registry name of the criterion.
func (l limited) Name() string { return l.name }
func (l limited) Active() bool { return l.active }

// Limit is the configured threshold.
func (l limited) Limit() int { return l.limit }

// MaxIterations stops once the given number of iterations completed.
type MaxIterations struct{ limited }

// NewMaxIterations stops the run once limit iterations have been made.
func NewMaxIterations(limit int, active bool) *MaxIterations {
	return &MaxIterations{limited{name: "max_iterations", active: active, limit: limit}}
}

func (c *MaxIterations) Stop(s Stats) bool { return s.Iteration >= c.limit }

// NoStructuralChange stops when the best solution has not been replaced
// for limit iterations.
type NoStructuralChange struct{ limited }

// NewNoStructuralChange stops after limit iterations without a new best
// assignment, even when the evaluation ties.
func NewNoStructuralChange(limit int, active bool) *NoStructuralChange {
	return &NoStructuralChange{limited{name: "no_structural_change", active: active, limit: limit}}
}

func (c *NoStructuralChange) Stop(s Stats) bool { return s.SinceBestChanged >= c.limit }

// NoImprovement stops when the best evaluation has not increased for limit
// iterations.
type NoImprovement struct{ limited }

// NewNoImprovement stops after limit iterations without a strictly better
// evaluation.
func NewNoImprovement(limit int, active bool) *NoImprovement {
	return &NoImprovement{limited{name: "no_improvement", active: active, limit: limit}}
}

func (c *NoImprovement) Stop(s Stats) bool { return s.SinceImproved >= c.limit }

// ObjectiveAspiration admits tabu candidates that beat the best solution.
type ObjectiveAspiration struct{ limited }

// NewObjectiveAspiration admits a tabu move whose evaluation beats the best
// one found so far.
func NewObjectiveAspiration(active bool) *ObjectiveAspiration {
	return &ObjectiveAspiration{limited{name: "objective", active: active}}
}

// Admit reports whether score improves on the best evaluation.
func (a *ObjectiveAspiration) Admit(score float64, s Stats) bool { return score > s.BestEvaluation }

// SameObjectiveAspiration admits tabu candidates that tie with the best
// solution once the search has been moving on a plateau for limit
// iterations.
type SameObjectiveAspiration struct{ limited }

// NewSameObjectiveAspiration admits a tabu move that ties the best
// evaluation once limit consecutive moves kept the current evaluation flat.
func NewSameObjectiveAspiration(limit int, active bool) *SameObjectiveAspiration {
	return &SameObjectiveAspiration{limited{name: "same_objective", active: active, limit: limit}}
}

func (a *SameObjectiveAspiration) Admit(score float64, s Stats) bool {
	return s.SinceNeighborChanged >= a.limit && score == s.BestEvaluation
}

var (
	stopRegistry       = factory.NewRegistry[StopCriterion]()
	aspirationRegistry = factory.NewRegistry[AspirationCriterion]()
)

// RegisterStopCriterion adds a stop criterion factory identified by name.
func RegisterStopCriterion(name string, f factory.Factory[StopCriterion]) error {
	return stopRegistry.Register(name, f)
}

// RegisterAspiration adds an aspiration criterion factory identified by name.
func RegisterAspiration(name string, f factory.Factory[AspirationCriterion]) error {
	return aspirationRegistry.Register(name, f)
}

type limitConf struct {
	Limit *int `json:"limit"`
}

func decodeLimit(mc factory.ModuleConfig, def int) (int, error) {
	var c limitConf
	if err := factory.Decode(mc.Conf, &c); err != nil {
		return 0, err
	}
	if c.Limit == nil {
		return def, nil
	}
	if *c.Limit <= 0 {
		return 0, fmt.Errorf("limit must be positive, got %d", *c.Limit)
	}
	return *c.Limit, nil
}

func stopFactory(def int, build func(int, bool) StopCriterion) factory.Factory[StopCriterion] {
	return func(mc factory.ModuleConfig) (StopCriterion, error) {
		limit, err := decodeLimit(mc, def)
		if err != nil {
			return nil, err
		}
		return build(limit, mc.IsActive()), nil
	}
}

func init() {
	stopRegistry.MustRegister("max_iterations", stopFactory(300, func(n int, on bool) StopCriterion {
		return NewMaxIterations(n, on)
	}))
	stopRegistry.MustRegister("no_structural_change", stopFactory(50, func(n int, on bool) StopCriterion {
		return NewNoStructuralChange(n, on)
	}))
	stopRegistry.MustRegister("no_improvement", stopFactory(10, func(n int, on bool) StopCriterion {
		return NewNoImprovement(n, on)
	}))

	aspirationRegistry.MustRegister("objective", func(mc factory.ModuleConfig) (AspirationCriterion, error) {
		var none struct{}
		if err := factory.Decode(mc.Conf, &none); err != nil {
			return nil, err
		}
		return NewObjectiveAspiration(mc.IsActive()), nil
	})
	aspirationRegistry.MustRegister("same_objective", func(mc factory.ModuleConfig) (AspirationCriterion, error) {
		limit, err := decodeLimit(mc, 10)
		if err != nil {
			return nil, err
		}
		return NewSameObjectiveAspiration(limit, mc.IsActive()), nil
	})
}
