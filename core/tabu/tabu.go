// Package tabu keeps the short-term memory that forbids the search from
// undoing recent moves.
package tabu

import (
	"errors"
	"fmt"

	"github.com/kilianp07/staffalloc/core/neighborhood"
)

// ErrInvalidConfig is returned by New for unusable settings.
var ErrInvalidConfig = errors.New("invalid tabu configuration")

// Mode selects what the list remembers.
type Mode string

const (
	// ModeSolution stores fingerprints of visited assignments.
	ModeSolution Mode = "solution"
	// ModeMovement stores the keys of inverse ops.
	ModeMovement Mode = "movement"
)

// Tenures is the number of iterations an inverse move stays forbidden, per
// class of the inverse move.
type Tenures struct {
	Add  int `json:"add" validate:"gte=1"`
	Drop int `json:"drop" validate:"gte=1"`
}

// For returns the tenure of a move of the given class. Swaps use the larger
// of both tenures.
func (t Tenures) For(kind neighborhood.MoveKind) int {
	switch kind {
	case neighborhood.MoveAdd:
		return t.Add
	case neighborhood.MoveRemove:
		return t.Drop
	default:
		return max(t.Add, t.Drop)
	}
}

// Config configures a tabu list.
type Config struct {
	Mode    Mode    `json:"mode" validate:"oneof=solution movement"`
	Tenures Tenures `json:"tenures"`
	// Size bounds the solution list.
	Size int `json:"size" validate:"gte=1"`
}

// DefaultConfig returns a solution-mode list of 25 entries with tenures of
// five iterations.
func DefaultConfig() Config {
	return Config{Mode: ModeSolution, Tenures: Tenures{Add: 5, Drop: 5}, Size: 25}
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	def := DefaultConfig()
	if c.Mode == "" {
		c.Mode = def.Mode
	}
	if c.Tenures.Add == 0 {
		c.Tenures.Add = def.Tenures.Add
	}
	if c.Tenures.Drop == 0 {
		c.Tenures.Drop = def.Tenures.Drop
	}
	if c.Size == 0 {
		c.Size = def.Size
	}
}

// Validate checks mode, tenures and size.
func (c Config) Validate() error {
	if c.Mode != ModeSolution && c.Mode != ModeMovement {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.Tenures.Add <= 0 || c.Tenures.Drop <= 0 {
		return fmt.Errorf("%w: tenures must be positive", ErrInvalidConfig)
	}
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive", ErrInvalidConfig)
	}
	return nil
}

// List is the tabu memory consulted once per candidate.
type List interface {
	// Tick expires entries that no longer apply at iteration.
	Tick(iteration int)
	// Tabu reports whether the candidate move, which leads to an assignment
	// with the given fingerprint, is forbidden at iteration.
	Tabu(m neighborhood.Move, result uint64, iteration int) bool
	// Record remembers the move applied at iteration. left is the
	// fingerprint of the assignment the move was applied to.
	Record(m neighborhood.Move, left uint64, iteration int)
	Len() int
}

// New builds the list selected by cfg.Mode.
func New(cfg Config) (List, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode == ModeMovement {
		return NewMovementList(cfg.Tenures), nil
	}
	return NewSolutionList(cfg.Tenures, cfg.Size), nil
}

type solutionEntry struct {
	fingerprint uint64
	expires     int
}

// SolutionList forbids returning to recently left assignments.
type SolutionList struct {
	tenures Tenures
	size    int
	entries []solutionEntry
}

// NewSolutionList returns an empty solution list holding at most size
// fingerprints.
func NewSolutionList(t Tenures, size int) *SolutionList {
	return &SolutionList{tenures: t, size: size}
}

// Tick drops the entries that expired before iteration.
func (l *SolutionList) Tick(iteration int) {
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.expires >= iteration {
			kept = append(kept, e)
		}
	}
	l.entries = kept
}

// Tabu reports whether result is a recently left assignment.
func (l *SolutionList) Tabu(_ neighborhood.Move, result uint64, iteration int) bool {
	for _, e := range l.entries {
		if e.fingerprint == result && e.expires >= iteration {
			return true
		}
	}
	return false
}

// Record stores the fingerprint of the assignment the move left. The oldest
// entry is evicted once the list is full.
func (l *SolutionList) Record(m neighborhood.Move, left uint64, iteration int) {
	k := l.tenures.For(m.Inverse().Class())
	l.entries = append(l.entries, solutionEntry{fingerprint: left, expires: iteration + k})
	if over := len(l.entries) - l.size; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
}

// Len is the number of live entries.
func (l *SolutionList) Len() int { return len(l.entries) }

// MovementList forbids the ops that would undo recent moves.
type MovementList struct {
	tenures Tenures
	expires map[string]int
}

// NewMovementList returns an empty movement list.
func NewMovementList(t Tenures) *MovementList {
	return &MovementList{tenures: t, expires: make(map[string]int)}
}

func (l *MovementList) Tick(iteration int) {
	for k, e := range l.expires {
		if e < iteration {
			delete(l.expires, k)
		}
	}
}

// Tabu reports whether any op of m would undo a recorded move.
func (l *MovementList) Tabu(m neighborhood.Move, _ uint64, iteration int) bool {
	for _, k := range m.Keys() {
		if e, ok := l.expires[k]; ok && e >= iteration {
			return true
		}
	}
	return false
}

// Record forbids the inverse of m until its tenure runs out.
func (l *MovementList) Record(m neighborhood.Move, _ uint64, iteration int) {
	inv := m.Inverse()
	until := iteration + l.tenures.For(inv.Class())
	for _, k := range inv.Keys() {
		if until > l.expires[k] {
			l.expires[k] = until
		}
	}
}

func (l *MovementList) Len() int { return len(l.expires) }
