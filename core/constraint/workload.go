package constraint

import (
	"fmt"

	"github.com/kilianp07/staffalloc/core/model"
)

// Workload thresholds and the factor applied when a teacher's saldo already
// justifies the deviation.
const (
	DefaultMinLoad  = 1.0
	DefaultMaxLoad  = 2.0
	JustifiedFactor = 0.75
)

type loadDeviation struct {
	teacher string
	load    float64
	amount  float64
}

// teacherLoads sums the section loads of every dataset teacher. Sections
// missing from the dataset contribute nothing.
func teacherLoads(a model.Assignment, ds *model.Dataset) []float64 {
	bySection := ds.SectionsOf(a)
	loads := make([]float64, len(ds.Teachers()))
	for i, t := range ds.Teachers() {
		for _, sid := range bySection[t.ID] {
			if s, ok := ds.Section(sid); ok {
				loads[i] += s.Load
			}
		}
	}
	return loads
}

// MinWorkload penalises teachers whose load is below the threshold. The
// penalty is softened for teachers with a negative saldo.
type MinWorkload struct {
	Info
	threshold float64
}

// NewMinWorkload returns the soft minimum workload constraint.
func NewMinWorkload(penalty, threshold float64, active bool) *MinWorkload {
	return &MinWorkload{
		Info: Info{
			name:        "min_workload",
			description: fmt.Sprintf("teacher load below %.2f", threshold),
			penalty:     penalty,
			active:      active,
		},
		threshold: threshold,
	}
}

func (c *MinWorkload) deviations(a model.Assignment, ds *model.Dataset) []loadDeviation {
	var out []loadDeviation
	for i, load := range teacherLoads(a, ds) {
		if load >= c.threshold {
			continue
		}
		t := ds.Teachers()[i]
		f := 1.0
		if t.Saldo < 0 {
			f = JustifiedFactor
		}
		out = append(out, loadDeviation{teacher: t.ID, load: load, amount: (c.threshold - load) * f})
	}
	return out
}

func (c *MinWorkload) Evaluate(a model.Assignment, ds *model.Dataset) float64 {
	var total float64
	for _, d := range c.deviations(a, ds) {
		total += d.amount
	}
	return -c.penalty * total
}

func (c *MinWorkload) Occurrences(a model.Assignment, ds *model.Dataset) []Occurrence {
	var out []Occurrence
	for _, d := range c.deviations(a, ds) {
		out = append(out, Occurrence{Label: fmt.Sprintf("%s load %.2f < %.2f", d.teacher, d.load, c.threshold), Count: 1})
	}
	return out
}

// MaxWorkload penalises teachers whose load is above the threshold. The
// penalty is softened for teachers with a positive saldo.
type MaxWorkload struct {
	Info
	threshold float64
}

// NewMaxWorkload returns the soft maximum workload constraint.
func NewMaxWorkload(penalty, threshold float64, active bool) *MaxWorkload {
	return &MaxWorkload{
		Info: Info{
			name:        "max_workload",
			description: fmt.Sprintf("teacher load above %.2f", threshold),
			penalty:     penalty,
			active:      active,
		},
		threshold: threshold,
	}
}

func (c *MaxWorkload) deviations(a model.Assignment, ds *model.Dataset) []loadDeviation {
	var out []loadDeviation
	for i, load := range teacherLoads(a, ds) {
		if load <= c.threshold {
			continue
		}
		t := ds.Teachers()[i]
		f := 1.0
		if t.Saldo > 0 {
			f = JustifiedFactor
		}
		out = append(out, loadDeviation{teacher: t.ID, load: load, amount: (load - c.threshold) * f})
	}
	return out
}

func (c *MaxWorkload) Evaluate(a model.Assignment, ds *model.Dataset) float64 {
	var total float64
	for _, d := range c.deviations(a, ds) {
		total += d.amount
	}
	return -c.penalty * total
}

func (c *MaxWorkload) Occurrences(a model.Assignment, ds *model.Dataset) []Occurrence {
	var out []Occurrence
	for _, d := range c.deviations(a, ds) {
		out = append(out, Occurrence{Label: fmt.Sprintf("%s load %.2f > %.2f", d.teacher, d.load, c.threshold), Count: 1})
	}
	return out
}
