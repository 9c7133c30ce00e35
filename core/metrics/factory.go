package metrics

import "github.com/kilianp07/staffalloc/core/factory"

var sinkRegistry = factory.NewRegistry[SearchSink]()

// RegisterSearchSink adds a sink factory identified by name.
func RegisterSearchSink(name string, f factory.Factory[SearchSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewSearchSink creates a SearchSink from the provided configuration.
// Inactive entries are skipped.
func NewSearchSink(cfgs []factory.ModuleConfig) (SearchSink, error) {
	var sinks []SearchSink
	for _, c := range cfgs {
		if !c.IsActive() {
			continue
		}
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	switch len(sinks) {
	case 0:
		return NopSink{}, nil
	case 1:
		return sinks[0], nil
	}
	return NewMultiSink(sinks...), nil
}
