package model

import (
	"errors"
	"fmt"
	"iter"
	"maps"
)

// ErrInvalidDataset is returned when the imported collections cannot form a
// consistent dataset.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset bundles the read-only inputs of a run and the lookup indices
// derived from them. It is built once before a search and never mutated.
type Dataset struct {
	teachers []Teacher
	sections []Section
	forms    []PreferenceForm
	locks    []Lock
	baseline Assignment

	teacherIdx   map[string]int
	sectionIdx   map[string]int
	conflicts    map[string]map[string]struct{}
	priorityBase int

	lockedCells   map[Pair]struct{}
	lockedRows    map[string]struct{}
	lockedColumns map[string]struct{}
}

// NewDataset validates the collections and derives conflict sets, the
// priority base and the lock index. Forms are merged into the teachers'
// priority maps. The initial assignment becomes the baseline that locks
// protect.
func NewDataset(teachers []Teacher, sections []Section, forms []PreferenceForm, locks []Lock, initial Assignment) (*Dataset, error) {
	ds := &Dataset{
		teacherIdx:    make(map[string]int, len(teachers)),
		sectionIdx:    make(map[string]int, len(sections)),
		conflicts:     make(map[string]map[string]struct{}, len(sections)),
		lockedCells:   make(map[Pair]struct{}),
		lockedRows:    make(map[string]struct{}),
		lockedColumns: make(map[string]struct{}),
		forms:         append([]PreferenceForm(nil), forms...),
		locks:         append([]Lock(nil), locks...),
	}
	for _, t := range teachers {
		if t.ID == "" {
			return nil, fmt.Errorf("%w: teacher without id", ErrInvalidDataset)
		}
		if _, dup := ds.teacherIdx[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate teacher %s", ErrInvalidDataset, t.ID)
		}
		t.Priorities = maps.Clone(t.Priorities)
		if t.Priorities == nil {
			t.Priorities = make(map[string]int)
		}
		ds.teacherIdx[t.ID] = len(ds.teachers)
		ds.teachers = append(ds.teachers, t)
	}
	for _, s := range sections {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: section without id", ErrInvalidDataset)
		}
		if _, dup := ds.sectionIdx[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate section %s", ErrInvalidDataset, s.ID)
		}
		if s.Load < 0 {
			return nil, fmt.Errorf("%w: section %s has negative load", ErrInvalidDataset, s.ID)
		}
		for _, slot := range s.Slots {
			if _, _, err := slot.minutes(); err != nil {
				return nil, fmt.Errorf("%w: section %s: %v", ErrInvalidDataset, s.ID, err)
			}
		}
		s.Slots = append([]TimeSlot(nil), s.Slots...)
		ds.sectionIdx[s.ID] = len(ds.sections)
		ds.sections = append(ds.sections, s)
	}

	maxPriority := 0
	for _, f := range ds.forms {
		if f.Priority > maxPriority {
			maxPriority = f.Priority
		}
		if i, ok := ds.teacherIdx[f.TeacherID]; ok {
			ds.teachers[i].Priorities[f.SectionID] = f.Priority
		}
	}
	for _, t := range ds.teachers {
		for _, p := range t.Priorities {
			if p > maxPriority {
				maxPriority = p
			}
		}
	}
	ds.priorityBase = maxPriority + 1

	ds.buildConflicts()

	for _, l := range ds.locks {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
		}
		switch l.Kind {
		case LockCell:
			ds.lockedCells[Pair{SectionID: l.SectionID, TeacherID: l.TeacherID}] = struct{}{}
		case LockRow:
			ds.lockedRows[l.TeacherID] = struct{}{}
		case LockColumn:
			ds.lockedColumns[l.SectionID] = struct{}{}
		}
	}

	ds.baseline = ds.Normalize(initial)
	return ds, nil
}

func (ds *Dataset) buildConflicts() {
	for _, s := range ds.sections {
		ds.conflicts[s.ID] = make(map[string]struct{})
	}
	for i := range ds.sections {
		for j := i + 1; j < len(ds.sections); j++ {
			a, b := ds.sections[i], ds.sections[j]
			if slotsOverlap(a.Slots, b.Slots) {
				ds.conflicts[a.ID][b.ID] = struct{}{}
				ds.conflicts[b.ID][a.ID] = struct{}{}
			}
		}
	}
}

func slotsOverlap(a, b []TimeSlot) bool {
	for _, x := range a {
		for _, y := range b {
			if x.Overlaps(y) {
				return true
			}
		}
	}
	return false
}

// Teachers returns the teachers in import order.
func (ds *Dataset) Teachers() []Teacher { return ds.teachers }

// Sections returns the sections in import order.
func (ds *Dataset) Sections() []Section { return ds.sections }

// Forms returns the preference forms as imported.
func (ds *Dataset) Forms() []PreferenceForm { return ds.forms }

// Locks returns the locks as imported.
func (ds *Dataset) Locks() []Lock { return ds.locks }

// Teacher looks up a teacher by id.
func (ds *Dataset) Teacher(id string) (Teacher, bool) {
	i, ok := ds.teacherIdx[id]
	if !ok {
		return Teacher{}, false
	}
	return ds.teachers[i], true
}

// Section looks up a section by id.
func (ds *Dataset) Section(id string) (Section, bool) {
	i, ok := ds.sectionIdx[id]
	if !ok {
		return Section{}, false
	}
	return ds.sections[i], true
}

// Conflicts returns the ids of sections whose schedule overlaps the given
// one. The returned set must not be modified.
func (ds *Dataset) Conflicts(sectionID string) map[string]struct{} {
	return ds.conflicts[sectionID]
}

// InConflict reports whether two sections overlap in time.
func (ds *Dataset) InConflict(a, b string) bool {
	_, ok := ds.conflicts[a][b]
	return ok
}

// PriorityBase is one more than the highest submitted priority. It is the
// inversion base for maximising priority components.
func (ds *Dataset) PriorityBase() int { return ds.priorityBase }

// Locked reports whether any lock covers the pair.
func (ds *Dataset) Locked(teacherID, sectionID string) bool {
	if _, ok := ds.lockedRows[teacherID]; ok {
		return true
	}
	if _, ok := ds.lockedColumns[sectionID]; ok {
		return true
	}
	_, ok := ds.lockedCells[Pair{SectionID: sectionID, TeacherID: teacherID}]
	return ok
}

// LockedState returns the baseline state a locked pair must keep.
func (ds *Dataset) LockedState(teacherID, sectionID string) bool {
	return ds.baseline.Has(sectionID, teacherID)
}

// Baseline returns a copy of the initial assignment.
func (ds *Dataset) Baseline() Assignment { return ds.baseline.Clone() }

// BaselinePairs yields the cells of the initial assignment without copying
// it. Order is unspecified.
func (ds *Dataset) BaselinePairs() iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		for s, ts := range ds.baseline.sections {
			for _, t := range ts {
				if !yield(Pair{SectionID: s, TeacherID: t}) {
					return
				}
			}
		}
	}
}

// Normalize returns a copy of a that holds an entry for every active
// section.
func (ds *Dataset) Normalize(a Assignment) Assignment {
	out := a.Clone()
	for _, s := range ds.sections {
		if s.Active {
			out.Ensure(s.ID)
		}
	}
	return out
}

// SectionsOf groups the assigned sections per teacher, preserving the
// dataset section order.
func (ds *Dataset) SectionsOf(a Assignment) map[string][]string {
	out := make(map[string][]string)
	seen := make(map[string]struct{}, len(ds.sections))
	for _, s := range ds.sections {
		seen[s.ID] = struct{}{}
		for _, t := range a.Teachers(s.ID) {
			out[t] = append(out[t], s.ID)
		}
	}
	for _, s := range a.Sections() {
		if _, ok := seen[s]; ok {
			continue
		}
		for _, t := range a.Teachers(s) {
			out[t] = append(out[t], s)
		}
	}
	return out
}
