package constraint

import (
	"fmt"

	"github.com/kilianp07/staffalloc/core/model"
)

// counted turns a list of occurrences into a penalty delta.
func counted(penalty float64, occ []Occurrence) float64 {
	n := 0
	for _, o := range occ {
		n += o.Count
	}
	return -penalty * float64(n)
}

// NoForm forbids assigning a teacher to a section they did not ask for.
type NoForm struct{ Info }

// NewNoForm returns the hard no-form constraint.
func NewNoForm(penalty float64, active bool) *NoForm {
	return &NoForm{Info{
		name:        "no_form",
		description: "teacher assigned to a section without a submitted preference",
		hard:        true,
		penalty:     penalty,
		active:      active,
	}}
}

// Evaluate charges the penalty once per pair without a form.
func (c *NoForm) Evaluate(a model.Assignment, ds *model.Dataset) float64 {
	return counted(c.penalty, c.Occurrences(a, ds))
}

func (c *NoForm) Occurrences(a model.Assignment, ds *model.Dataset) []Occurrence {
	var out []Occurrence
	for _, p := range a.Pairs() {
		t, ok := ds.Teacher(p.TeacherID)
		if !ok {
			continue
		}
		if _, ok := ds.Section(p.SectionID); !ok {
			continue
		}
		if _, ok := t.Priority(p.SectionID); !ok {
			out = append(out, Occurrence{Label: fmt.Sprintf("%s assigned to %s without form", p.TeacherID, p.SectionID), Count: 1})
		}
	}
	return out
}

// Locks penalises every locked cell whose state differs from the baseline.
type Locks struct{ Info }

// NewLocks returns the hard lock constraint.
func NewLocks(penalty float64, active bool) *Locks {
	return &Locks{Info{
		name:        "locks",
		description: "locked cell, row or column differs from its locked state",
		hard:        true,
		penalty:     penalty,
		active:      active,
	}}
}

// Evaluate counts every violated cell once, however many locks cover it.
func (c *Locks) Evaluate(a model.Assignment, ds *model.Dataset) float64 {
	pairs := a.Pairs()
	seen := make(map[model.Pair]struct{})
	for _, l := range ds.Locks() {
		for _, p := range lockViolations(l, pairs, a, ds) {
			seen[p] = struct{}{}
		}
	}
	return -c.penalty * float64(len(seen))
}

// Occurrences lists the violated cells per lock.
func (c *Locks) Occurrences(a model.Assignment, ds *model.Dataset) []Occurrence {
	pairs := a.Pairs()
	var out []Occurrence
	for _, l := range ds.Locks() {
		if n := len(lockViolations(l, pairs, a, ds)); n > 0 {
			out = append(out, Occurrence{Label: l.String(), Count: n})
		}
	}
	return out
}

// lockViolations lists the cells covered by l whose state in a differs from
// the baseline: assigned cells missing from the baseline, then baseline
// cells missing from a. pairs are the cells of a.
func lockViolations(l model.Lock, pairs []model.Pair, a model.Assignment, ds *model.Dataset) []model.Pair {
	var out []model.Pair
	for _, p := range pairs {
		if l.Covers(p.TeacherID, p.SectionID) && !ds.LockedState(p.TeacherID, p.SectionID) {
			out = append(out, p)
		}
	}
	for p := range ds.BaselinePairs() {
		if l.Covers(p.TeacherID, p.SectionID) && !a.Has(p.SectionID, p.TeacherID) {
			out = append(out, p)
		}
	}
	return out
}

// SectionWithoutTeacher penalises active sections left without staff.
type SectionWithoutTeacher struct{ Info }

// NewSectionWithoutTeacher returns the soft empty-section constraint.
func NewSectionWithoutTeacher(penalty float64, active bool) *SectionWithoutTeacher {
	return &SectionWithoutTeacher{Info{
		name:        "section_without_teacher",
		description: "active section without any assigned teacher",
		penalty:     penalty,
		active:      active,
	}}
}

func (c *SectionWithoutTeacher) Evaluate(a model.Assignment, ds *model.Dataset) float64 {
	return counted(c.penalty, c.Occurrences(a, ds))
}

// Occurrences names every active section left empty.
func (c *SectionWithoutTeacher) Occurrences(a model.Assignment, ds *model.Dataset) []Occurrence {
	var out []Occurrence
	for _, s := range ds.Sections() {
		if s.Active && len(a.Teachers(s.ID)) == 0 {
			out = append(out, Occurrence{Label: s.ID, Count: 1})
		}
	}
	return out
}

// ScheduleConflict penalises teachers assigned to overlapping sections.
type ScheduleConflict struct{ Info }

// NewScheduleConflict returns the soft schedule conflict constraint.
func NewScheduleConflict(penalty float64, active bool) *ScheduleConflict {
	return &ScheduleConflict{Info{
		name:        "schedule_conflict",
		description: "teacher assigned to sections meeting at the same time",
		penalty:     penalty,
		active:      active,
	}}
}

// Evaluate charges the penalty for each overlapping section pair a teacher
// holds.
func (c *ScheduleConflict) Evaluate(a model.Assignment, ds *model.Dataset) float64 {
	return counted(c.penalty, c.Occurrences(a, ds))
}

func (c *ScheduleConflict) Occurrences(a model.Assignment, ds *model.Dataset) []Occurrence {
	bySection := ds.SectionsOf(a)
	var out []Occurrence
	for _, t := range ds.Teachers() {
		ss := bySection[t.ID]
		for i := 0; i < len(ss); i++ {
			for j := i + 1; j < len(ss); j++ {
				if ds.InConflict(ss[i], ss[j]) {
					out = append(out, Occurrence{Label: fmt.Sprintf("%s: %s x %s", t.ID, ss[i], ss[j]), Count: 1})
				}
			}
		}
	}
	return out
}
