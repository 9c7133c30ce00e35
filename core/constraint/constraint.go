// Package constraint implements the hard and soft rules that reduce the
// evaluation of an assignment, together with on-demand occurrence
// diagnostics.
package constraint

import (
	"fmt"

	"github.com/kilianp07/staffalloc/core/model"
)

// Default penalties. Hard rules use a magnitude that dominates every soft
// term so that feasible assignments always rank above infeasible ones.
const (
	HardPenalty     = 1e6
	CriticalPenalty = 1e5
	WorkloadPenalty = 10.0
)

// Occurrence is one diagnostic line of a constraint report.
type Occurrence struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Constraint penalises assignments that break a rule.
type Constraint interface {
	Name() string
	Description() string
	Hard() bool
	Penalty() float64
	Active() bool
	// Evaluate returns the non-positive delta added to the evaluation.
	Evaluate(a model.Assignment, ds *model.Dataset) float64
	// Occurrences explains the violations found in a. It never mutates
	// its inputs.
	Occurrences(a model.Assignment, ds *model.Dataset) []Occurrence
}

// Info holds the descriptive fields shared by every constraint.
type Info struct {
	name        string
	description string
	hard        bool
	penalty     float64
	active      bool
}

func (i Info) Name() string        { return i.name }
func (i Info) Description() string { return i.description }
func (i Info) Hard() bool          { return i.hard }
func (i Info) Penalty() float64    { return i.penalty }
func (i Info) Active() bool        { return i.active }

// Report is the occurrence breakdown of one constraint.
type Report struct {
	Name        string       `json:"name"`
	Hard        bool         `json:"hard"`
	Active      bool         `json:"active"`
	Penalty     float64      `json:"penalty"`
	Value       float64      `json:"value"`
	Occurrences []Occurrence `json:"occurrences"`
}

// Total sums the counts of every occurrence.
func (r Report) Total() int {
	n := 0
	for _, o := range r.Occurrences {
		n += o.Count
	}
	return n
}

// Registry partitions constraints into hard and soft sets by name while
// keeping registration order for All.
type Registry struct {
	order []string
	hard  map[string]Constraint
	soft  map[string]Constraint
}

// NewRegistry registers the given constraints in order.
func NewRegistry(cs ...Constraint) (*Registry, error) {
	r := &Registry{hard: make(map[string]Constraint), soft: make(map[string]Constraint)}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a constraint. Names must be unique across both sets.
func (r *Registry) Register(c Constraint) error {
	if c == nil {
		return fmt.Errorf("constraint: nil constraint")
	}
	if r.hard == nil {
		r.hard = make(map[string]Constraint)
		r.soft = make(map[string]Constraint)
	}
	if _, ok := r.Get(c.Name()); ok {
		return fmt.Errorf("constraint: %s already registered", c.Name())
	}
	if c.Penalty() < 0 {
		return fmt.Errorf("constraint: %s has negative penalty", c.Name())
	}
	if c.Hard() {
		r.hard[c.Name()] = c
	} else {
		r.soft[c.Name()] = c
	}
	r.order = append(r.order, c.Name())
	return nil
}

// Get returns a constraint by name from either set.
func (r *Registry) Get(name string) (Constraint, bool) {
	if c, ok := r.hard[name]; ok {
		return c, true
	}
	c, ok := r.soft[name]
	return c, ok
}

// All returns every constraint in registration order.
func (r *Registry) All() []Constraint {
	out := make([]Constraint, 0, len(r.order))
	for _, n := range r.order {
		c, _ := r.Get(n)
		out = append(out, c)
	}
	return out
}

// Hard returns the hard constraints in registration order.
func (r *Registry) Hard() []Constraint { return r.filter(func(c Constraint) bool { return c.Hard() }) }

// Soft returns the soft constraints in registration order.
func (r *Registry) Soft() []Constraint { return r.filter(func(c Constraint) bool { return !c.Hard() }) }

// Active returns the enabled constraints in registration order.
func (r *Registry) Active() []Constraint { return r.filter(Constraint.Active) }

func (r *Registry) filter(keep func(Constraint) bool) []Constraint {
	var out []Constraint
	for _, c := range r.All() {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Penalty sums Evaluate over the active constraints. The result is never
// positive.
func (r *Registry) Penalty(a model.Assignment, ds *model.Dataset) float64 {
	var total float64
	for _, c := range r.Active() {
		total += c.Evaluate(a, ds)
	}
	return total
}

// Report computes the occurrence breakdown of every constraint, active or
// not, against any assignment snapshot.
func (r *Registry) Report(a model.Assignment, ds *model.Dataset) []Report {
	out := make([]Report, 0, len(r.order))
	for _, c := range r.All() {
		rep := Report{
			Name:        c.Name(),
			Hard:        c.Hard(),
			Active:      c.Active(),
			Penalty:     c.Penalty(),
			Occurrences: c.Occurrences(a, ds),
		}
		if c.Active() {
			rep.Value = c.Evaluate(a, ds)
		}
		out = append(out, rep)
	}
	return out
}
