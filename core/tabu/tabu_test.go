package tabu

import (
	"errors"
	"testing"

	"github.com/kilianp07/staffalloc/core/neighborhood"
)

var addT1A = neighborhood.Move{
	Kind: neighborhood.MoveAdd,
	Ops:  []neighborhood.Op{{Kind: neighborhood.OpAdd, Teacher: "t1", Section: "a"}},
}

func TestTenures_For(t *testing.T) {
	tn := Tenures{Add: 2, Drop: 7}
	if got := tn.For(neighborhood.MoveAdd); got != 2 {
		t.Fatalf("add tenure %d", got)
	}
	if got := tn.For(neighborhood.MoveRemove); got != 7 {
		t.Fatalf("drop tenure %d", got)
	}
	if got := tn.For(neighborhood.MoveSwap); got != 7 {
		t.Fatalf("swap tenure %d", got)
	}
}

func TestSolutionList_Expiry(t *testing.T) {
	// the inverse of an add is a remove, which uses the drop tenure
	l := NewSolutionList(Tenures{Add: 9, Drop: 2}, 10)
	l.Record(addT1A, 42, 1)
	for _, c := range []struct {
		iteration int
		tabu      bool
	}{{2, true}, {3, true}, {4, false}} {
		l.Tick(c.iteration)
		if got := l.Tabu(neighborhood.Move{}, 42, c.iteration); got != c.tabu {
			t.Errorf("iteration %d: tabu=%v want %v", c.iteration, got, c.tabu)
		}
	}
	if l.Len() != 0 {
		t.Fatalf("expected expired entries to be dropped, got %d", l.Len())
	}
	l.Record(addT1A, 42, 5)
	if l.Tabu(neighborhood.Move{}, 7, 6) {
		t.Fatal("unknown fingerprint must not be tabu")
	}
}

func TestSolutionList_Evicts(t *testing.T) {
	l := NewSolutionList(Tenures{Add: 100, Drop: 100}, 2)
	l.Record(addT1A, 1, 1)
	l.Record(addT1A, 2, 2)
	l.Record(addT1A, 3, 3)
	if l.Len() != 2 {
		t.Fatalf("len %d", l.Len())
	}
	if l.Tabu(addT1A, 1, 4) {
		t.Fatal("oldest fingerprint should have been evicted")
	}
	if !l.Tabu(addT1A, 3, 4) {
		t.Fatal("newest fingerprint should be tabu")
	}
}

func TestMovementList(t *testing.T) {
	l := NewMovementList(Tenures{Add: 3, Drop: 1})
	l.Record(addT1A, 0, 5)

	readd := addT1A
	drop := addT1A.Inverse()
	if l.Tabu(readd, 0, 6) {
		t.Fatal("repeating the move is allowed")
	}
	if !l.Tabu(drop, 0, 6) {
		t.Fatal("undoing the move must be tabu")
	}
	l.Tick(7)
	if l.Tabu(drop, 0, 7) {
		t.Fatal("drop tenure of 1 expires after one iteration")
	}
	if l.Len() != 0 {
		t.Fatalf("len %d", l.Len())
	}

	swap := neighborhood.Move{Kind: neighborhood.MoveSwap, Ops: []neighborhood.Op{
		{Kind: neighborhood.OpDrop, Teacher: "t1", Section: "a"},
		{Kind: neighborhood.OpAdd, Teacher: "t1", Section: "b"},
	}}
	l.Record(swap, 0, 10)
	partial := neighborhood.Move{Kind: neighborhood.MoveAdd, Ops: []neighborhood.Op{{Kind: neighborhood.OpAdd, Teacher: "t1", Section: "a"}}}
	if !l.Tabu(partial, 0, 13) {
		t.Fatal("any inverse op of a swap is tabu for the larger tenure")
	}
	if l.Tabu(partial, 0, 14) {
		t.Fatal("swap tenure should have elapsed")
	}
}

func TestNew(t *testing.T) {
	l, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := l.(*SolutionList); !ok {
		t.Fatalf("default mode should be solution, got %T", l)
	}
	cfg := DefaultConfig()
	cfg.Mode = ModeMovement
	if l, _ = New(cfg); l == nil {
		t.Fatal("nil movement list")
	}
	if _, ok := l.(*MovementList); !ok {
		t.Fatalf("got %T", l)
	}

	bad := []Config{
		{Mode: "other", Tenures: Tenures{1, 1}, Size: 1},
		{Mode: ModeSolution, Tenures: Tenures{0, 1}, Size: 1},
		{Mode: ModeSolution, Tenures: Tenures{1, 1}, Size: 0},
	}
	for _, c := range bad {
		if _, err := New(c); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%+v: expected ErrInvalidConfig, got %v", c, err)
		}
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	c := Config{Tenures: Tenures{Add: 3}}
	c.SetDefaults()
	if c.Mode != ModeSolution || c.Tenures.Add != 3 || c.Tenures.Drop != 5 || c.Size != 25 {
		t.Fatalf("unexpected defaults %+v", c)
	}
}
