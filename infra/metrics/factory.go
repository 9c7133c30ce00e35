package metrics

import (
	"github.com/kilianp07/staffalloc/core/factory"
	coremetrics "github.com/kilianp07/staffalloc/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// init registers built-in search sinks.
func init() {
	_ = coremetrics.RegisterSearchSink("nop", func(factory.ModuleConfig) (coremetrics.SearchSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterSearchSink("prometheus", func(mc factory.ModuleConfig) (coremetrics.SearchSink, error) {
		var c struct{}
		if err := factory.Decode(mc.Conf, &c); err != nil {
			return nil, err
		}
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})
}
