package neighborhood

import (
	"iter"

	"github.com/kilianp07/staffalloc/core/model"
)

// Generator lazily enumerates moves from an assignment. The sequence is
// finite and can be ranged over several times.
type Generator interface {
	Name() string
	Active() bool
	Generate(a model.Assignment, ds *model.Dataset) iter.Seq[Move]
}

type info struct {
	name   string
	active bool
}

// Name is the registry name of the generator.
func (i info) Name() string { return i.name }
func (i info) Active() bool { return i.active }

// Add proposes assigning a teacher to an active section they asked for.
type Add struct{ info }

// NewAdd returns the generator that assigns one more teacher to a section.
func NewAdd(active bool) *Add { return &Add{info{name: "add", active: active}} }

// Generate yields one add per free, unlocked pair the teacher asked for.
func (g *Add) Generate(a model.Assignment, ds *model.Dataset) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		for _, s := range ds.Sections() {
			if !s.Active {
				continue
			}
			for _, t := range ds.Teachers() {
				if _, ok := t.Priority(s.ID); !ok {
					continue
				}
				if a.Has(s.ID, t.ID) || ds.Locked(t.ID, s.ID) {
					continue
				}
				m := Move{Kind: MoveAdd, Ops: []Op{{Kind: OpAdd, Teacher: t.ID, Section: s.ID}}}
				if !yield(m) {
					return
				}
			}
		}
	}
}

// Remove proposes dropping an assigned, unlocked pair.
type Remove struct{ info }

// NewRemove returns the generator that drops a single assignment.
func NewRemove(active bool) *Remove { return &Remove{info{name: "remove", active: active}} }

func (g *Remove) Generate(a model.Assignment, ds *model.Dataset) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		for _, c := range assignedCells(a, ds) {
			m := Move{Kind: MoveRemove, Ops: []Op{{Kind: OpDrop, Teacher: c.TeacherID, Section: c.SectionID}}}
			if !yield(m) {
				return
			}
		}
	}
}

// Swap exchanges the sections of two teachers in a single move.
type Swap struct{ info }

// NewSwap returns the generator that exchanges the sections of two teachers.
func NewSwap(active bool) *Swap { return &Swap{info{name: "swap", active: active}} }

// Generate yields swaps between assigned pairs. Both teachers must have a
// form for the section they receive and neither pair may be locked.
func (g *Swap) Generate(a model.Assignment, ds *model.Dataset) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		cells := assignedCells(a, ds)
		for i := 0; i < len(cells); i++ {
			for j := i + 1; j < len(cells); j++ {
				c1, c2 := cells[i], cells[j]
				if !swappable(a, ds, c1, c2) {
					continue
				}
				m := Move{Kind: MoveSwap, Ops: []Op{
					{Kind: OpDrop, Teacher: c1.TeacherID, Section: c1.SectionID},
					{Kind: OpDrop, Teacher: c2.TeacherID, Section: c2.SectionID},
					{Kind: OpAdd, Teacher: c1.TeacherID, Section: c2.SectionID},
					{Kind: OpAdd, Teacher: c2.TeacherID, Section: c1.SectionID},
				}}
				if !yield(m) {
					return
				}
			}
		}
	}
}

func swappable(a model.Assignment, ds *model.Dataset, c1, c2 model.Pair) bool {
	if c1.TeacherID == c2.TeacherID || c1.SectionID == c2.SectionID {
		return false
	}
	if a.Has(c2.SectionID, c1.TeacherID) || a.Has(c1.SectionID, c2.TeacherID) {
		return false
	}
	if ds.Locked(c1.TeacherID, c2.SectionID) || ds.Locked(c2.TeacherID, c1.SectionID) {
		return false
	}
	t1, _ := ds.Teacher(c1.TeacherID)
	t2, _ := ds.Teacher(c2.TeacherID)
	if _, ok := t1.Priority(c2.SectionID); !ok {
		return false
	}
	_, ok := t2.Priority(c1.SectionID)
	return ok
}

// assignedCells lists the unlocked assigned pairs in dataset section order,
// then dataset teacher order. Pairs with unknown ids are left alone.
func assignedCells(a model.Assignment, ds *model.Dataset) []model.Pair {
	var out []model.Pair
	for _, s := range ds.Sections() {
		for _, t := range ds.Teachers() {
			if a.Has(s.ID, t.ID) && !ds.Locked(t.ID, s.ID) {
				out = append(out, model.Pair{SectionID: s.ID, TeacherID: t.ID})
			}
		}
	}
	return out
}

// Enumerate flattens the moves of every active generator, in the order the
// generators are given, into indexed candidates.
func Enumerate(gens []Generator, a model.Assignment, ds *model.Dataset) []Candidate {
	var out []Candidate
	for _, g := range gens {
		if !g.Active() {
			continue
		}
		for m := range g.Generate(a, ds) {
			out = append(out, Candidate{Index: len(out), Generator: g.Name(), Move: m})
		}
	}
	return out
}
