package model

import "fmt"

// LockKind selects what a Lock protects.
type LockKind string

const (
	// LockCell protects a single (teacher, section) pair.
	LockCell LockKind = "cell"
	// LockRow protects every pair of a teacher.
	LockRow LockKind = "row"
	// LockColumn protects every pair of a section.
	LockColumn LockKind = "column"
)

// Lock (trava) freezes part of the assignment at its initial state for the
// whole run.
type Lock struct {
	Kind      LockKind `json:"kind" yaml:"kind"`
	TeacherID string   `json:"teacher,omitempty" yaml:"teacher,omitempty"`
	SectionID string   `json:"section,omitempty" yaml:"section,omitempty"`
}

// Validate checks that the ids required by the lock kind are present.
func (l Lock) Validate() error {
	switch l.Kind {
	case LockCell:
		if l.TeacherID == "" || l.SectionID == "" {
			return fmt.Errorf("cell lock requires teacher and section")
		}
	case LockRow:
		if l.TeacherID == "" {
			return fmt.Errorf("row lock requires teacher")
		}
	case LockColumn:
		if l.SectionID == "" {
			return fmt.Errorf("column lock requires section")
		}
	default:
		return fmt.Errorf("unknown lock kind %q", l.Kind)
	}
	return nil
}

// Covers reports whether the lock protects the given pair.
func (l Lock) Covers(teacherID, sectionID string) bool {
	switch l.Kind {
	case LockCell:
		return l.TeacherID == teacherID && l.SectionID == sectionID
	case LockRow:
		return l.TeacherID == teacherID
	case LockColumn:
		return l.SectionID == sectionID
	}
	return false
}

func (l Lock) String() string {
	switch l.Kind {
	case LockCell:
		return fmt.Sprintf("cell %s/%s", l.TeacherID, l.SectionID)
	case LockRow:
		return "row " + l.TeacherID
	case LockColumn:
		return "column " + l.SectionID
	}
	return string(l.Kind)
}
