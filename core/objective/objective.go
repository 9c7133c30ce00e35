// Package objective scores the quality of an assignment as a weighted sum of
// pluggable components.
package objective

import (
	"fmt"

	"github.com/kilianp07/staffalloc/core/model"
)

// Kind tells whether a component's score is to be maximised or minimised.
type Kind string

const (
	Maximize Kind = "max"
	Minimize Kind = "min"
)

// Component scores one quality dimension of an assignment. Score already
// includes the component multiplier.
type Component interface {
	Name() string
	Description() string
	Active() bool
	Kind() Kind
	Multiplier() float64
	Score(a model.Assignment, ds *model.Dataset) float64
}

// Info holds the descriptive fields shared by every component.
type Info struct {
	name        string
	description string
	active      bool
	kind        Kind
	multiplier  float64
}

func (i Info) Name() string        { return i.name }
func (i Info) Description() string { return i.description }
func (i Info) Active() bool        { return i.active }
func (i Info) Kind() Kind          { return i.kind }
func (i Info) Multiplier() float64 { return i.multiplier }

// Term is one line of a score breakdown.
type Term struct {
	Name   string
	Active bool
	Kind   Kind
	Value  float64
}

// Function aggregates registered components. Registration order is kept for
// reporting; it has no influence on the total.
type Function struct {
	order      []string
	components map[string]Component
}

// NewFunction registers the given components in order.
func NewFunction(cs ...Component) (*Function, error) {
	f := &Function{components: make(map[string]Component, len(cs))}
	for _, c := range cs {
		if err := f.Register(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Register adds a component. Names must be unique.
func (f *Function) Register(c Component) error {
	if c == nil {
		return fmt.Errorf("objective: nil component")
	}
	if f.components == nil {
		f.components = make(map[string]Component)
	}
	if _, dup := f.components[c.Name()]; dup {
		return fmt.Errorf("objective: component %s already registered", c.Name())
	}
	f.components[c.Name()] = c
	f.order = append(f.order, c.Name())
	return nil
}

// Component returns a registered component by name.
func (f *Function) Component(name string) (Component, bool) {
	c, ok := f.components[name]
	return c, ok
}

// Components returns every component in registration order.
func (f *Function) Components() []Component {
	out := make([]Component, 0, len(f.order))
	for _, n := range f.order {
		out = append(out, f.components[n])
	}
	return out
}

// Calculate returns the signed sum of every active component: maximised
// components add their score, minimised ones subtract it.
func (f *Function) Calculate(a model.Assignment, ds *model.Dataset) float64 {
	var total float64
	for _, n := range f.order {
		c := f.components[n]
		if !c.Active() {
			continue
		}
		total += signed(c, c.Score(a, ds))
	}
	return total
}

// Breakdown reports each component's signed contribution in registration
// order. Inactive components are listed with a zero value.
func (f *Function) Breakdown(a model.Assignment, ds *model.Dataset) []Term {
	out := make([]Term, 0, len(f.order))
	for _, n := range f.order {
		c := f.components[n]
		t := Term{Name: n, Active: c.Active(), Kind: c.Kind()}
		if c.Active() {
			t.Value = signed(c, c.Score(a, ds))
		}
		out = append(out, t)
	}
	return out
}

func signed(c Component, v float64) float64 {
	if c.Kind() == Minimize {
		return -v
	}
	return v
}
