package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Teacher is a staff member who can be assigned to sections.
type Teacher struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// Saldo is the workload balance credit: positive when the teacher is owed
	// more load, negative when previously overloaded.
	Saldo float64 `json:"saldo" yaml:"saldo"`
	// Priorities maps a section id to the submitted priority. Lower values are
	// preferred; a missing entry means no interest.
	Priorities map[string]int `json:"priorities" yaml:"priorities"`
}

// Priority returns the priority submitted for the section, if any.
func (t Teacher) Priority(sectionID string) (int, bool) {
	p, ok := t.Priorities[sectionID]
	return p, ok
}

// TimeSlot is a weekly meeting of a section.
type TimeSlot struct {
	Day   string `json:"day" yaml:"day"`
	Start string `json:"start" yaml:"start"` // HH:MM
	End   string `json:"end" yaml:"end"`     // HH:MM
}

// Overlaps reports whether both slots meet on the same day at intersecting
// times. Slots with unparsable clocks never overlap.
func (s TimeSlot) Overlaps(o TimeSlot) bool {
	if !strings.EqualFold(s.Day, o.Day) {
		return false
	}
	s0, s1, err := s.minutes()
	if err != nil {
		return false
	}
	o0, o1, err := o.minutes()
	if err != nil {
		return false
	}
	return s0 < o1 && o0 < s1
}

func (s TimeSlot) minutes() (int, int, error) {
	start, err := parseClock(s.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseClock(s.End)
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, fmt.Errorf("slot %s %s-%s ends before it starts", s.Day, s.Start, s.End)
	}
	return start, end, nil
}

func parseClock(v string) (int, error) {
	hh, mm, ok := strings.Cut(v, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q", v)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock %q", v)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q", v)
	}
	return h*60 + m, nil
}

// Section is a course section (disciplina) that needs teaching staff.
type Section struct {
	ID     string     `json:"id" yaml:"id"`
	Name   string     `json:"name" yaml:"name"`
	Load   float64    `json:"load" yaml:"load"` // carga
	Slots  []TimeSlot `json:"slots" yaml:"slots"`
	Active bool       `json:"active" yaml:"active"`
}

// PreferenceForm records the priority a teacher submitted for a section.
type PreferenceForm struct {
	TeacherID string `json:"teacher" yaml:"teacher"`
	SectionID string `json:"section" yaml:"section"`
	Priority  int    `json:"priority" yaml:"priority"`
}
