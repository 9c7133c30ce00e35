package factory

import (
	"errors"
	"testing"
)

type sample struct {
	A      int
	Active bool
}

type sampleConf struct {
	A int `json:"a"`
}

func sampleFactory(mc ModuleConfig) (*sample, error) {
	var c sampleConf
	if err := Decode(mc.Conf, &c); err != nil {
		return nil, err
	}
	return &sample{A: c.A, Active: mc.IsActive()}, nil
}

// Test registry registration and instantiation using Decode.
func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("s", sampleFactory); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"a": 3}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.A != 3 || !inst.Active {
		t.Fatalf("unexpected instance %+v", inst)
	}

	off := false
	inst, err = reg.Create(ModuleConfig{Type: "s", Active: &off, Conf: map[string]any{"a": "4"}})
	if err != nil {
		t.Fatalf("create weakly typed: %v", err)
	}
	if inst.A != 4 || inst.Active {
		t.Fatalf("unexpected instance %+v", inst)
	}
}

// Test duplicate registration, unknown type and unused key errors.
func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("x", sampleFactory); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", sampleFactory); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("y", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "y"}); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected unknown type error got %v", err)
	}
	if _, err := reg.Create(ModuleConfig{Type: "x", Conf: map[string]any{"b": 1}}); err == nil {
		t.Fatal("expected error for unused key")
	}
}

func TestRegistry_CreateAllAndNames(t *testing.T) {
	reg := NewRegistry[*sample]()
	reg.MustRegister("b", sampleFactory)
	reg.MustRegister("a", sampleFactory)
	mods, err := reg.CreateAll([]ModuleConfig{{Type: "b", Conf: map[string]any{"a": 1}}, {Type: "a"}})
	if err != nil {
		t.Fatalf("create all: %v", err)
	}
	if len(mods) != 2 || mods[0].A != 1 {
		t.Fatalf("unexpected modules %+v", mods)
	}
	if _, err := reg.CreateAll([]ModuleConfig{{Type: "a"}, {Type: "zzz"}}); err == nil {
		t.Fatal("expected error")
	}
	if names := reg.Names(); len(names) != 2 || names[0] != "a" {
		t.Fatalf("unexpected names %v", names)
	}
}
