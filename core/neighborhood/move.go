// Package neighborhood enumerates the moves that transform one assignment
// into a neighbouring one.
package neighborhood

import (
	"fmt"
	"strings"

	"github.com/kilianp07/staffalloc/core/model"
)

// OpKind is the elementary change applied to one cell.
type OpKind string

const (
	OpAdd  OpKind = "add"
	OpDrop OpKind = "drop"
)

// Op adds or drops a single (teacher, section) pair.
type Op struct {
	Kind    OpKind `json:"kind"`
	Teacher string `json:"teacher"`
	Section string `json:"section"`
}

// Inverse returns the op undoing o.
func (o Op) Inverse() Op {
	inv := o
	if o.Kind == OpAdd {
		inv.Kind = OpDrop
	} else {
		inv.Kind = OpAdd
	}
	return inv
}

// Key identifies the op in movement-keyed tabu lists.
func (o Op) Key() string {
	return string(o.Kind) + ":" + o.Teacher + "@" + o.Section
}

// MoveKind classifies a move for tenure selection.
type MoveKind string

const (
	MoveAdd    MoveKind = "add"
	MoveRemove MoveKind = "remove"
	MoveSwap   MoveKind = "swap"
)

// Move is an atomic sequence of ops.
type Move struct {
	Kind MoveKind `json:"kind"`
	Ops  []Op     `json:"ops"`
}

// Apply returns a copy of a with the ops applied. a is left untouched.
func (m Move) Apply(a model.Assignment) model.Assignment {
	out := a.Clone()
	for _, op := range m.Ops {
		switch op.Kind {
		case OpAdd:
			out.Add(op.Section, op.Teacher)
		case OpDrop:
			out.Remove(op.Section, op.Teacher)
		}
	}
	return out
}

// Inverse returns the move that restores the assignment m was applied to.
func (m Move) Inverse() Move {
	ops := make([]Op, len(m.Ops))
	for i, op := range m.Ops {
		ops[len(m.Ops)-1-i] = op.Inverse()
	}
	kind := m.Kind
	switch m.Kind {
	case MoveAdd:
		kind = MoveRemove
	case MoveRemove:
		kind = MoveAdd
	}
	return Move{Kind: kind, Ops: ops}
}

// Class is the move kind used to pick a tabu tenure.
func (m Move) Class() MoveKind { return m.Kind }

// Keys returns the key of every op in order.
func (m Move) Keys() []string {
	keys := make([]string, len(m.Ops))
	for i, op := range m.Ops {
		keys[i] = op.Key()
	}
	return keys
}

func (m Move) String() string {
	parts := make([]string, len(m.Ops))
	for i, op := range m.Ops {
		parts[i] = fmt.Sprintf("%s %s@%s", op.Kind, op.Teacher, op.Section)
	}
	return string(m.Kind) + "(" + strings.Join(parts, ", ") + ")"
}

// Candidate is a move tagged with its position in the enumeration of one
// iteration. Index is the tie-breaker when scores are equal.
type Candidate struct {
	Index     int
	Generator string
	Move      Move
}
