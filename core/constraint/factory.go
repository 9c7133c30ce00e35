package constraint

import (
	"fmt"

	"github.com/kilianp07/staffalloc/core/factory"
)

var registry = factory.NewRegistry[Constraint]()

// Register adds a constraint factory identified by name.
func Register(name string, f factory.Factory[Constraint]) error {
	return registry.Register(name, f)
}

// Types lists the registered constraint types.
func Types() []string { return registry.Names() }

type penaltyConf struct {
	Penalty   *float64 `json:"penalty"`
	Threshold *float64 `json:"threshold"`
}

func (c penaltyConf) penalty(def float64) (float64, error) {
	if c.Penalty == nil {
		return def, nil
	}
	if *c.Penalty < 0 {
		return 0, fmt.Errorf("penalty must be non-negative, got %v", *c.Penalty)
	}
	return *c.Penalty, nil
}

func (c penaltyConf) threshold(def float64) (float64, error) {
	if c.Threshold == nil {
		return def, nil
	}
	if *c.Threshold < 0 {
		return 0, fmt.Errorf("threshold must be non-negative, got %v", *c.Threshold)
	}
	return *c.Threshold, nil
}

func simple(def float64, build func(float64, bool) Constraint) factory.Factory[Constraint] {
	return func(mc factory.ModuleConfig) (Constraint, error) {
		var c penaltyConf
		if err := factory.Decode(mc.Conf, &c); err != nil {
			return nil, err
		}
		if c.Threshold != nil {
			return nil, fmt.Errorf("threshold is not supported by %s", mc.Type)
		}
		p, err := c.penalty(def)
		if err != nil {
			return nil, err
		}
		return build(p, mc.IsActive()), nil
	}
}

func workload(defThreshold float64, build func(float64, float64, bool) Constraint) factory.Factory[Constraint] {
	return func(mc factory.ModuleConfig) (Constraint, error) {
		var c penaltyConf
		if err := factory.Decode(mc.Conf, &c); err != nil {
			return nil, err
		}
		p, err := c.penalty(WorkloadPenalty)
		if err != nil {
			return nil, err
		}
		th, err := c.threshold(defThreshold)
		if err != nil {
			return nil, err
		}
		return build(p, th, mc.IsActive()), nil
	}
}

func init() {
	registry.MustRegister("no_form", simple(HardPenalty, func(p float64, on bool) Constraint { return NewNoForm(p, on) }))
	registry.MustRegister("locks", simple(HardPenalty, func(p float64, on bool) Constraint { return NewLocks(p, on) }))
	registry.MustRegister("section_without_teacher", simple(CriticalPenalty, func(p float64, on bool) Constraint {
		return NewSectionWithoutTeacher(p, on)
	}))
	registry.MustRegister("schedule_conflict", simple(CriticalPenalty, func(p float64, on bool) Constraint {
		return NewScheduleConflict(p, on)
	}))
	registry.MustRegister("min_workload", workload(DefaultMinLoad, func(p, th float64, on bool) Constraint {
		return NewMinWorkload(p, th, on)
	}))
	registry.MustRegister("max_workload", workload(DefaultMaxLoad, func(p, th float64, on bool) Constraint {
		return NewMaxWorkload(p, th, on)
	}))
}

// Build creates a Registry from module configurations, keeping their order.
func Build(cfgs []factory.ModuleConfig) (*Registry, error) {
	cs, err := registry.CreateAll(cfgs)
	if err != nil {
		return nil, err
	}
	return NewRegistry(cs...)
}
