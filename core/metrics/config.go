package metrics

import "github.com/kilianp07/staffalloc/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// Addr is the listen address of the /metrics endpoint. Empty disables it.
	Addr string `json:"addr"`
}
