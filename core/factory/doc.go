// Package factory provides the generic registry used to build engine
// components from configuration. Each component entry names a registered
// type, an optional active flag and a raw settings map that the factory
// decodes into its own typed struct.
//
// Example usage:
//
//	reg := factory.NewRegistry[objective.Component]()
//	reg.Register("priority_inversion", func(mc factory.ModuleConfig) (objective.Component, error) {
//	    var c struct{ Multiplier float64 `json:"multiplier"` }
//	    if err := factory.Decode(mc.Conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return objective.NewPriorityInversion(c.Multiplier, mc.IsActive()), nil
//	})
//	c, err := reg.Create(factory.ModuleConfig{Type: "priority_inversion"})
package factory
