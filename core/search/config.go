package search

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/staffalloc/core/constraint"
	"github.com/kilianp07/staffalloc/core/factory"
	"github.com/kilianp07/staffalloc/core/neighborhood"
	"github.com/kilianp07/staffalloc/core/objective"
	"github.com/kilianp07/staffalloc/core/tabu"
)

// ErrInvalidConfig reports a configuration the engine cannot run with.
var ErrInvalidConfig = errors.New("invalid search configuration")

var validate = validator.New()

// Config lists the components of a run and the tabu settings. Component
// lists keep their order: generator order is the candidate tie-breaker.
type Config struct {
	Objective   []factory.ModuleConfig `json:"objective"`
	Constraints []factory.ModuleConfig `json:"constraints"`
	Generators  []factory.ModuleConfig `json:"generators"`
	Stop        []factory.ModuleConfig `json:"stop"`
	Aspiration  []factory.ModuleConfig `json:"aspiration"`
	Tabu        tabu.Config            `json:"tabu"`
	// Workers bounds parallel candidate scoring. Zero uses GOMAXPROCS.
	Workers int `json:"workers" validate:"gte=0"`
}

func module(typ string, conf map[string]any) factory.ModuleConfig {
	return factory.ModuleConfig{Type: typ, Conf: conf}
}

// DefaultConfig enables every builtin constraint, generator, stop and
// aspiration criterion, and scores with priority inversion.
func DefaultConfig() Config {
	off := false
	return Config{
		Objective: []factory.ModuleConfig{
			module("priority_inversion", nil),
			{Type: "tabled_weights", Active: &off},
		},
		Constraints: []factory.ModuleConfig{
			module("no_form", nil),
			module("locks", nil),
			module("section_without_teacher", nil),
			module("schedule_conflict", nil),
			module("min_workload", nil),
			module("max_workload", nil),
		},
		Generators: []factory.ModuleConfig{
			module("add", nil),
			module("remove", nil),
			module("swap", nil),
		},
		Stop: []factory.ModuleConfig{
			module("max_iterations", map[string]any{"limit": 300}),
			module("no_structural_change", map[string]any{"limit": 50}),
			module("no_improvement", map[string]any{"limit": 10}),
		},
		Aspiration: []factory.ModuleConfig{
			module("objective", nil),
			module("same_objective", map[string]any{"limit": 10}),
		},
		Tabu: tabu.DefaultConfig(),
	}
}

// SetDefaults fills nil component lists and unset tabu fields. An explicit
// empty list is kept.
func (c *Config) SetDefaults() {
	def := DefaultConfig()
	if c.Objective == nil {
		c.Objective = def.Objective
	}
	if c.Constraints == nil {
		c.Constraints = def.Constraints
	}
	if c.Generators == nil {
		c.Generators = def.Generators
	}
	if c.Stop == nil {
		c.Stop = def.Stop
	}
	if c.Aspiration == nil {
		c.Aspiration = def.Aspiration
	}
	c.Tabu.SetDefaults()
}

// Validate builds every component once and reports the first problem.
func (c Config) Validate() error {
	_, err := c.Build()
	return err
}

// Components is the assembled form of a Config.
type Components struct {
	Objective   *objective.Function
	Constraints *constraint.Registry
	Generators  []neighborhood.Generator
	Stop        []StopCriterion
	Aspiration  []AspirationCriterion
	Tabu        tabu.Config
	Workers     int
}

// Build instantiates the configured components through their registries.
// Errors wrap ErrInvalidConfig.
func (c Config) Build() (Components, error) {
	if err := validate.Struct(c); err != nil {
		return Components{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	var out Components
	var err error
	if out.Objective, err = objective.Build(c.Objective); err != nil {
		return Components{}, fmt.Errorf("%w: objective: %w", ErrInvalidConfig, err)
	}
	if out.Constraints, err = constraint.Build(c.Constraints); err != nil {
		return Components{}, fmt.Errorf("%w: constraints: %w", ErrInvalidConfig, err)
	}
	if out.Generators, err = neighborhood.Build(c.Generators); err != nil {
		return Components{}, fmt.Errorf("%w: generators: %w", ErrInvalidConfig, err)
	}
	if out.Stop, err = stopRegistry.CreateAll(c.Stop); err != nil {
		return Components{}, fmt.Errorf("%w: stop: %w", ErrInvalidConfig, err)
	}
	if out.Aspiration, err = aspirationRegistry.CreateAll(c.Aspiration); err != nil {
		return Components{}, fmt.Errorf("%w: aspiration: %w", ErrInvalidConfig, err)
	}
	out.Tabu = c.Tabu
	out.Workers = c.Workers
	if err := out.Validate(); err != nil {
		return Components{}, err
	}
	return out, nil
}

// Validate checks the invariants the engine relies on.
func (c Components) Validate() error {
	if c.Objective == nil || len(c.Objective.Components()) == 0 {
		return fmt.Errorf("%w: no objective component", ErrInvalidConfig)
	}
	if !anyActive(c.Generators) {
		return fmt.Errorf("%w: no active neighborhood generator", ErrInvalidConfig)
	}
	if !anyActive(c.Stop) {
		return fmt.Errorf("%w: no active stop criterion", ErrInvalidConfig)
	}
	if err := c.Tabu.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c Components) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func anyActive[T interface{ Active() bool }](xs []T) bool {
	for _, x := range xs {
		if x.Active() {
			return true
		}
	}
	return false
}
