// Package metrics defines the sinks that observe search runs. Sinks record a
// summary per run and may opt into per-iteration records by implementing
// IterationRecorder. The factory helpers return a MultiSink automatically
// when several sinks are configured.
package metrics
