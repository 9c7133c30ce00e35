package objective

import (
	"fmt"

	"github.com/kilianp07/staffalloc/core/factory"
)

var registry = factory.NewRegistry[Component]()

// Register adds a component factory identified by name.
func Register(name string, f factory.Factory[Component]) error {
	return registry.Register(name, f)
}

// Types lists the registered component types.
func Types() []string { return registry.Names() }

type weightConf struct {
	Multiplier *float64  `json:"multiplier"`
	Table      []float64 `json:"table"`
}

func (c weightConf) multiplier() (float64, error) {
	if c.Multiplier == nil {
		return 1, nil
	}
	if *c.Multiplier < 0 {
		return 0, fmt.Errorf("multiplier must be non-negative, got %v", *c.Multiplier)
	}
	return *c.Multiplier, nil
}

func init() {
	registry.MustRegister("priority_inversion", func(mc factory.ModuleConfig) (Component, error) {
		var c weightConf
		if err := factory.Decode(mc.Conf, &c); err != nil {
			return nil, err
		}
		m, err := c.multiplier()
		if err != nil {
			return nil, err
		}
		return NewPriorityInversion(m, mc.IsActive()), nil
	})
	registry.MustRegister("tabled_weights", func(mc factory.ModuleConfig) (Component, error) {
		var c weightConf
		if err := factory.Decode(mc.Conf, &c); err != nil {
			return nil, err
		}
		m, err := c.multiplier()
		if err != nil {
			return nil, err
		}
		return NewTabledWeights(m, c.Table, mc.IsActive()), nil
	})
}

// Build creates a Function from module configurations, keeping their order.
func Build(cfgs []factory.ModuleConfig) (*Function, error) {
	cs, err := registry.CreateAll(cfgs)
	if err != nil {
		return nil, err
	}
	return NewFunction(cs...)
}
