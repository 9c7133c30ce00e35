package model

import "testing"

func TestAssignment_AddRemove(t *testing.T) {
	a := NewAssignment("s1", "s2")
	if !a.Add("s1", "t1") {
		t.Fatalf("expected add to succeed")
	}
	if a.Add("s1", "t1") {
		t.Fatalf("duplicate teacher must be rejected")
	}
	a.Add("s1", "t2")
	if got := a.Teachers("s1"); len(got) != 2 || got[0] != "t1" || got[1] != "t2" {
		t.Fatalf("unexpected order %v", got)
	}
	if !a.Remove("s1", "t1") || a.Has("s1", "t1") {
		t.Fatalf("remove failed")
	}
	if a.Remove("s2", "t1") {
		t.Fatalf("removing a missing pair must report false")
	}
	if len(a.Sections()) != 2 {
		t.Fatalf("empty sections must be kept")
	}
}

func TestAssignment_CloneIsIndependent(t *testing.T) {
	a := AssignmentFromMap(map[string][]string{"s1": {"t1", "t2"}})
	b := a.Clone()
	b.Remove("s1", "t1")
	b.Add("s2", "t3")
	if !a.Has("s1", "t1") || a.Has("s2", "t3") {
		t.Fatalf("clone mutated the original")
	}
}

func TestAssignment_RemoveDoesNotAliasClones(t *testing.T) {
	a := AssignmentFromMap(map[string][]string{"s1": {"t1", "t2", "t3"}})
	b := a.Clone()
	c := a
	c.Remove("s1", "t1")
	if got := b.Teachers("s1"); got[0] != "t1" {
		t.Fatalf("clone observed removal: %v", got)
	}
}

func TestAssignment_Fingerprint(t *testing.T) {
	a := AssignmentFromMap(map[string][]string{"s1": {"t1", "t2"}, "s2": nil})
	b := AssignmentFromMap(map[string][]string{"s1": {"t2", "t1"}})
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprint must ignore order and empty sections")
	}
	if !a.Equal(b) {
		t.Fatalf("expected equal assignments")
	}
	c := AssignmentFromMap(map[string][]string{"s1": {"t1"}, "s2": {"t2"}})
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("different assignments share a fingerprint")
	}
	if a.Equal(c) {
		t.Fatalf("expected different assignments")
	}
}

func TestAssignment_Pairs(t *testing.T) {
	a := AssignmentFromMap(map[string][]string{"b": {"t2"}, "a": {"t1"}})
	a.Add("a", "t3")
	got := a.Pairs()
	want := []Pair{{"a", "t1"}, {"a", "t3"}, {"b", "t2"}}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pair %d: got %v want %v", i, got[i], want[i])
		}
	}
	if a.Len() != 3 {
		t.Fatalf("expected 3 cells got %d", a.Len())
	}
}

func TestTimeSlot_Overlaps(t *testing.T) {
	a := TimeSlot{Day: "Mon", Start: "08:00", End: "10:00"}
	cases := []struct {
		b    TimeSlot
		want bool
	}{
		{TimeSlot{Day: "mon", Start: "09:30", End: "11:00"}, true},
		{TimeSlot{Day: "mon", Start: "10:00", End: "11:00"}, false},
		{TimeSlot{Day: "tue", Start: "08:00", End: "10:00"}, false},
		{TimeSlot{Day: "mon", Start: "bad", End: "11:00"}, false},
	}
	for _, c := range cases {
		if got := a.Overlaps(c.b); got != c.want {
			t.Errorf("%v overlaps %v: got %v want %v", a, c.b, got, c.want)
		}
	}
}

func TestAssignment_JSON(t *testing.T) {
	a := AssignmentFromMap(map[string][]string{"calc": {"ana", "bruno"}, "geo": nil})
	b, err := a.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"calc":["ana","bruno"],"geo":[]}` {
		t.Fatalf("unexpected encoding %s", b)
	}
	var back Assignment
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(a) || len(back.Sections()) != 2 {
		t.Fatalf("round trip lost data: %v", back.BySection())
	}
}
