package neighborhood

import "github.com/kilianp07/staffalloc/core/factory"

var registry = factory.NewRegistry[Generator]()

// Register adds a generator factory identified by name.
func Register(name string, f factory.Factory[Generator]) error {
	return registry.Register(name, f)
}

// Types lists the registered generator types.
func Types() []string { return registry.Names() }

func builtin(build func(bool) Generator) factory.Factory[Generator] {
	return func(mc factory.ModuleConfig) (Generator, error) {
		// builtin generators take no options
		var none struct{}
		if err := factory.Decode(mc.Conf, &none); err != nil {
			return nil, err
		}
		return build(mc.IsActive()), nil
	}
}

func init() {
	registry.MustRegister("add", builtin(func(on bool) Generator { return NewAdd(on) }))
	registry.MustRegister("remove", builtin(func(on bool) Generator { return NewRemove(on) }))
	registry.MustRegister("swap", builtin(func(on bool) Generator { return NewSwap(on) }))
}

// Build creates generators from module configurations, keeping their order.
func Build(cfgs []factory.ModuleConfig) ([]Generator, error) {
	return registry.CreateAll(cfgs)
}
