package model

import (
	"encoding/json"
	"slices"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Pair is one (section, teacher) cell of an Assignment.
type Pair struct {
	SectionID string
	TeacherID string
}

// Assignment maps each section id to an ordered set of teacher ids.
// The zero value is an empty assignment ready to use.
type Assignment struct {
	sections map[string][]string
}

// NewAssignment returns an assignment with an empty entry for every id.
func NewAssignment(sectionIDs ...string) Assignment {
	a := Assignment{sections: make(map[string][]string, len(sectionIDs))}
	for _, id := range sectionIDs {
		a.sections[id] = nil
	}
	return a
}

// AssignmentFromMap builds an assignment from a plain map, dropping
// duplicate teachers inside a section.
func AssignmentFromMap(m map[string][]string) Assignment {
	a := Assignment{sections: make(map[string][]string, len(m))}
	for s, ts := range m {
		a.Ensure(s)
		for _, t := range ts {
			a.Add(s, t)
		}
	}
	return a
}

// Ensure creates an empty entry for the section when missing.
func (a *Assignment) Ensure(sectionID string) {
	if a.sections == nil {
		a.sections = make(map[string][]string)
	}
	if _, ok := a.sections[sectionID]; !ok {
		a.sections[sectionID] = nil
	}
}

// Clone returns a deep copy.
func (a Assignment) Clone() Assignment {
	cp := Assignment{sections: make(map[string][]string, len(a.sections))}
	for s, ts := range a.sections {
		cp.sections[s] = slices.Clone(ts)
	}
	return cp
}

// Teachers returns the teachers assigned to the section in insertion order.
// The returned slice must not be modified.
func (a Assignment) Teachers(sectionID string) []string {
	return a.sections[sectionID]
}

// Has reports whether the teacher is assigned to the section.
func (a Assignment) Has(sectionID, teacherID string) bool {
	return slices.Contains(a.sections[sectionID], teacherID)
}

// Add assigns the teacher to the section. It returns false when the pair
// already existed.
func (a *Assignment) Add(sectionID, teacherID string) bool {
	a.Ensure(sectionID)
	if a.Has(sectionID, teacherID) {
		return false
	}
	a.sections[sectionID] = append(a.sections[sectionID], teacherID)
	return true
}

// Remove unassigns the teacher from the section, keeping the section entry.
func (a *Assignment) Remove(sectionID, teacherID string) bool {
	ts := a.sections[sectionID]
	i := slices.Index(ts, teacherID)
	if i < 0 {
		return false
	}
	a.sections[sectionID] = slices.Delete(slices.Clone(ts), i, i+1)
	return true
}

// Sections returns the section ids in ascending order.
func (a Assignment) Sections() []string {
	ids := make([]string, 0, len(a.sections))
	for s := range a.sections {
		ids = append(ids, s)
	}
	sort.Strings(ids)
	return ids
}

// Pairs lists every assigned cell ordered by section id then insertion order.
func (a Assignment) Pairs() []Pair {
	var out []Pair
	for _, s := range a.Sections() {
		for _, t := range a.sections[s] {
			out = append(out, Pair{SectionID: s, TeacherID: t})
		}
	}
	return out
}

// BySection returns a copy of the underlying map.
func (a Assignment) BySection() map[string][]string {
	out := make(map[string][]string, len(a.sections))
	for s, ts := range a.sections {
		out[s] = slices.Clone(ts)
	}
	return out
}

// Len returns the number of assigned cells.
func (a Assignment) Len() int {
	n := 0
	for _, ts := range a.sections {
		n += len(ts)
	}
	return n
}

// Fingerprint hashes the assignment independently of insertion order.
// Empty section entries do not contribute.
func (a Assignment) Fingerprint() uint64 {
	d := xxhash.New()
	for _, s := range a.Sections() {
		ts := a.sections[s]
		if len(ts) == 0 {
			continue
		}
		sorted := slices.Clone(ts)
		sort.Strings(sorted)
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
		for _, t := range sorted {
			_, _ = d.WriteString(t)
			_, _ = d.Write([]byte{1})
		}
		_, _ = d.Write([]byte{2})
	}
	return d.Sum64()
}

// Equal reports whether both assignments hold the same cells.
func (a Assignment) Equal(b Assignment) bool {
	if a.Len() != b.Len() {
		return false
	}
	for s, ts := range a.sections {
		for _, t := range ts {
			if !b.Has(s, t) {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes the assignment as an object of section id to teacher
// ids.
func (a Assignment) MarshalJSON() ([]byte, error) {
	m := a.BySection()
	for s, ts := range m {
		if ts == nil {
			m[s] = []string{}
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the object form produced by MarshalJSON.
func (a *Assignment) UnmarshalJSON(b []byte) error {
	var m map[string][]string
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*a = AssignmentFromMap(m)
	return nil
}

// Solution is an assignment together with its evaluation.
type Solution struct {
	Assignment Assignment `json:"assignment"`
	Evaluation float64    `json:"evaluation"`
}
