// Package infra contains technical adapters such as the zerolog logger and
// the Prometheus search sink. These packages depend only on the interfaces
// defined in the core packages.
package infra
