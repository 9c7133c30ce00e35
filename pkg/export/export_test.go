package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/staffalloc/core/constraint"
	"github.com/kilianp07/staffalloc/core/model"
	"github.com/kilianp07/staffalloc/core/search"
)

func dataset(t *testing.T) *model.Dataset {
	t.Helper()
	ds, err := model.NewDataset(
		[]model.Teacher{
			{ID: "ana", Priorities: map[string]int{"geo": 2}},
			{ID: "bruno"},
		},
		[]model.Section{{ID: "geo", Active: true}, {ID: "calc", Active: true}},
		nil, nil, model.Assignment{},
	)
	require.NoError(t, err)
	return ds
}

func TestWriteCSV(t *testing.T) {
	a := model.AssignmentFromMap(map[string][]string{
		"calc": {"bruno"},
		"geo":  {"ana"},
		"zoo":  {"ana"},
	})
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, a, dataset(t)))
	want := "section,teacher,priority\ngeo,ana,2\ncalc,bruno,\nzoo,ana,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteJSON(t *testing.T) {
	res := search.Result{
		RunID:  "r1",
		State:  search.StateConverged,
		Reason: search.ReasonConverged,
		Best: model.Solution{
			Assignment: model.AssignmentFromMap(map[string][]string{"geo": {"ana"}}),
			Evaluation: 4,
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, res))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "converged", got["state"])
	best := got["best"].(map[string]any)
	assert.Equal(t, 4.0, best["evaluation"])
	assert.Equal(t, map[string]any{"geo": []any{"ana"}}, best["assignment"])
}

func TestWriteReportCSV(t *testing.T) {
	reports := []constraint.Report{
		{Name: "locks", Hard: true, Active: true},
		{Name: "schedule_conflict", Active: true, Value: -200, Occurrences: []constraint.Occurrence{
			{Label: "ana: calc x geo", Count: 1},
			{Label: "bruno: calc x geo", Count: 1},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, reports))
	want := "constraint,hard,active,value,occurrence,count\n" +
		"locks,true,true,0,,0\n" +
		"schedule_conflict,false,true,-200,ana: calc x geo,1\n" +
		"schedule_conflict,false,true,-200,bruno: calc x geo,1\n"
	assert.Equal(t, want, buf.String())
}
