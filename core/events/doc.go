// Package events defines the search events published while an engine runs.
//
// Available event types:
//   - Progress: one per completed iteration
//   - Finished: emitted once when the run reaches a terminal state
package events
