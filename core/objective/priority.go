package objective

import "github.com/kilianp07/staffalloc/core/model"

// DefaultPointsTable ranks preferences like a racing championship.
var DefaultPointsTable = []float64{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// PriorityInversion rewards assigned pairs by their inverted priority so
// that a first choice scores highest.
type PriorityInversion struct {
	Info
}

// NewPriorityInversion returns the component with the given multiplier.
func NewPriorityInversion(multiplier float64, active bool) *PriorityInversion {
	return &PriorityInversion{Info: Info{
		name:        "priority_inversion",
		description: "rewards each assignment by (highest priority + 1 - priority)",
		active:      active,
		kind:        Maximize,
		multiplier:  multiplier,
	}}
}

// Score sums multiplier*(base-priority) over assigned pairs that carry a
// submitted priority. The base comes from the dataset.
func (p *PriorityInversion) Score(a model.Assignment, ds *model.Dataset) float64 {
	base := float64(ds.PriorityBase())
	var total float64
	eachPriority(a, ds, func(prio int) {
		total += p.multiplier * (base - float64(prio))
	})
	return total
}

// TabledWeights rewards assigned pairs using a fixed rank-indexed table.
type TabledWeights struct {
	Info
	table []float64
}

// NewTabledWeights returns the component. A nil table selects
// DefaultPointsTable.
func NewTabledWeights(multiplier float64, table []float64, active bool) *TabledWeights {
	if len(table) == 0 {
		table = DefaultPointsTable
	}
	return &TabledWeights{
		Info: Info{
			name:        "tabled_weights",
			description: "rewards each assignment with the points of its preference rank",
			active:      active,
			kind:        Maximize,
			multiplier:  multiplier,
		},
		table: append([]float64(nil), table...),
	}
}

// Score adds multiplier*table[priority-1]; ranks beyond the table earn 0.
func (w *TabledWeights) Score(a model.Assignment, ds *model.Dataset) float64 {
	var total float64
	eachPriority(a, ds, func(prio int) {
		if prio >= 1 && prio <= len(w.table) {
			total += w.multiplier * w.table[prio-1]
		}
	})
	return total
}

// eachPriority visits the submitted priority of every assigned pair, in a
// deterministic order. Unknown teachers and pairs without a form are skipped.
func eachPriority(a model.Assignment, ds *model.Dataset, fn func(int)) {
	for _, pair := range a.Pairs() {
		t, ok := ds.Teacher(pair.TeacherID)
		if !ok {
			continue
		}
		if prio, ok := t.Priority(pair.SectionID); ok {
			fn(prio)
		}
	}
}
