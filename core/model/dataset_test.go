package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset(t *testing.T, locks []Lock, initial Assignment) *Dataset {
	t.Helper()
	teachers := []Teacher{
		{ID: "ana", Saldo: 0.5},
		{ID: "bruno", Saldo: -0.5, Priorities: map[string]int{"calc": 3}},
	}
	sections := []Section{
		{ID: "calc", Load: 1, Active: true, Slots: []TimeSlot{{Day: "mon", Start: "08:00", End: "10:00"}}},
		{ID: "alg", Load: 1, Active: true, Slots: []TimeSlot{{Day: "mon", Start: "09:00", End: "11:00"}}},
		{ID: "geo", Load: 0.5, Active: true, Slots: []TimeSlot{{Day: "tue", Start: "09:00", End: "11:00"}}},
		{ID: "old", Load: 1, Active: false},
	}
	forms := []PreferenceForm{
		{TeacherID: "ana", SectionID: "calc", Priority: 1},
		{TeacherID: "ana", SectionID: "alg", Priority: 2},
		{TeacherID: "ghost", SectionID: "alg", Priority: 4},
	}
	ds, err := NewDataset(teachers, sections, forms, locks, initial)
	require.NoError(t, err)
	return ds
}

func TestNewDataset_Indices(t *testing.T) {
	ds := sampleDataset(t, nil, Assignment{})

	p, ok := ds.teachers[0].Priority("alg")
	require.True(t, ok)
	assert.Equal(t, 2, p)
	_, ok = ds.Teacher("ghost")
	assert.False(t, ok, "forms of unknown teachers must not create teachers")

	// highest priority is the dangling form (4), plus one
	assert.Equal(t, 5, ds.PriorityBase())

	assert.True(t, ds.InConflict("calc", "alg"))
	assert.True(t, ds.InConflict("alg", "calc"))
	assert.False(t, ds.InConflict("calc", "geo"))
	assert.Empty(t, ds.Conflicts("old"))

	base := ds.Baseline()
	assert.ElementsMatch(t, []string{"alg", "calc", "geo"}, base.Sections(), "inactive sections get no entry")
}

func TestNewDataset_PriorityBaseWithoutForms(t *testing.T) {
	ds, err := NewDataset([]Teacher{{ID: "a"}}, []Section{{ID: "s", Active: true}}, nil, nil, Assignment{})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.PriorityBase())
}

func TestNewDataset_Errors(t *testing.T) {
	cases := []struct {
		name     string
		teachers []Teacher
		sections []Section
		locks    []Lock
	}{
		{"duplicate teacher", []Teacher{{ID: "a"}, {ID: "a"}}, nil, nil},
		{"duplicate section", nil, []Section{{ID: "s"}, {ID: "s"}}, nil},
		{"negative load", nil, []Section{{ID: "s", Load: -1}}, nil},
		{"bad clock", nil, []Section{{ID: "s", Slots: []TimeSlot{{Day: "mon", Start: "25:00", End: "26:00"}}}}, nil},
		{"reversed slot", nil, []Section{{ID: "s", Slots: []TimeSlot{{Day: "mon", Start: "10:00", End: "09:00"}}}}, nil},
		{"cell lock without section", nil, nil, []Lock{{Kind: LockCell, TeacherID: "a"}}},
		{"unknown lock kind", nil, nil, []Lock{{Kind: "diagonal", TeacherID: "a"}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewDataset(c.teachers, c.sections, nil, c.locks, Assignment{})
			if !errors.Is(err, ErrInvalidDataset) {
				t.Fatalf("expected ErrInvalidDataset got %v", err)
			}
		})
	}
}

func TestDataset_Locks(t *testing.T) {
	initial := AssignmentFromMap(map[string][]string{"calc": {"ana"}})
	ds := sampleDataset(t, []Lock{
		{Kind: LockCell, TeacherID: "ana", SectionID: "calc"},
		{Kind: LockRow, TeacherID: "bruno"},
		{Kind: LockColumn, SectionID: "geo"},
	}, initial)

	assert.True(t, ds.Locked("ana", "calc"))
	assert.False(t, ds.Locked("ana", "alg"))
	assert.True(t, ds.Locked("bruno", "alg"))
	assert.True(t, ds.Locked("ana", "geo"))

	assert.True(t, ds.LockedState("ana", "calc"))
	assert.False(t, ds.LockedState("bruno", "calc"))
}

func TestDataset_SectionsOf(t *testing.T) {
	ds := sampleDataset(t, nil, Assignment{})
	a := AssignmentFromMap(map[string][]string{
		"geo":     {"ana"},
		"calc":    {"ana", "bruno"},
		"unknown": {"bruno"},
	})
	got := ds.SectionsOf(a)
	assert.Equal(t, []string{"calc", "geo"}, got["ana"])
	assert.Equal(t, []string{"calc", "unknown"}, got["bruno"])
}

func TestDataset_FormsConflictsAndBaselinePairs(t *testing.T) {
	initial := AssignmentFromMap(map[string][]string{"calc": {"ana", "bruno"}, "zoo": {"ana"}})
	ds := sampleDataset(t, nil, initial)

	require.Len(t, ds.Forms(), 3)
	assert.Equal(t, "ghost", ds.Forms()[2].TeacherID, "dangling forms are kept as imported")
	assert.Equal(t, map[string]struct{}{"alg": {}}, ds.Conflicts("calc"))

	var pairs []Pair
	for p := range ds.BaselinePairs() {
		pairs = append(pairs, p)
	}
	assert.ElementsMatch(t, []Pair{
		{SectionID: "calc", TeacherID: "ana"},
		{SectionID: "calc", TeacherID: "bruno"},
		{SectionID: "zoo", TeacherID: "ana"},
	}, pairs)

	n := 0
	for range ds.BaselinePairs() {
		n++
		break
	}
	assert.Equal(t, 1, n, "iteration stops when the consumer breaks")
}
