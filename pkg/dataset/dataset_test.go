package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/staffalloc/core/model"
)

const sample = `teachers:
  - id: ana
    saldo: -1
    priorities:
      calc: 1
  - id: bruno
sections:
  - id: calc
    load: 1
    slots:
      - {day: mon, start: "08:00", end: "10:00"}
  - id: geo
    load: 1.5
    slots:
      - {day: mon, start: "09:00", end: "11:00"}
  - id: old
    active: false
forms:
  - {teacher: bruno, section: geo, priority: 2}
locks:
  - {kind: cell, teacher: ana, section: calc}
initial:
  calc: [ana]
`

func write(t *testing.T, name, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

func TestLoad_YAML(t *testing.T) {
	ds, initial, err := Load(write(t, "faculty.yaml", sample))
	require.NoError(t, err)

	assert.Len(t, ds.Teachers(), 2)
	require.Len(t, ds.Sections(), 3)
	assert.False(t, ds.Sections()[2].Active)
	assert.True(t, ds.Sections()[0].Active, "active defaults to true")

	bruno, ok := ds.Teacher("bruno")
	require.True(t, ok)
	p, ok := bruno.Priority("geo")
	assert.True(t, ok)
	assert.Equal(t, 2, p)
	assert.Equal(t, 3, ds.PriorityBase())

	assert.True(t, ds.InConflict("calc", "geo"))
	assert.True(t, ds.Locked("ana", "calc"))
	assert.True(t, initial.Has("calc", "ana"))
	assert.Empty(t, initial.Teachers("geo"))
}

func TestLoad_JSON(t *testing.T) {
	data := `{"teachers":[{"id":"t1","priorities":{"s1":1}}],"sections":[{"id":"s1","load":2}],"initial":{"s1":["t1"]}}`
	ds, initial, err := Load(write(t, "faculty.json", data))
	require.NoError(t, err)
	assert.Equal(t, 2.0, ds.Sections()[0].Load)
	assert.Equal(t, 1, initial.Len())
}

func TestLoad_Invalid(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, _, err = Load(write(t, "faculty.csv", "id"))
	assert.ErrorContains(t, err, "unsupported dataset format")

	_, _, err = Load(write(t, "bad.yaml", ":"))
	assert.Error(t, err)

	cases := map[string]string{
		"missing teacher id": "teachers: [{name: x}]\nsections: [{id: s}]\n",
		"bad lock kind":      "teachers: [{id: t}]\nsections: [{id: s}]\nlocks: [{kind: diagonal}]\n",
		"zero priority":      "teachers: [{id: t}]\nsections: [{id: s}]\nforms: [{teacher: t, section: s, priority: 0}]\n",
		"duplicate section":  "teachers: [{id: t}]\nsections: [{id: s}, {id: s}]\n",
		"bad slot":           "teachers: [{id: t}]\nsections: [{id: s, slots: [{day: mon, start: \"10:00\", end: \"09:00\"}]}]\n",
		"no sections":        "teachers: [{id: t}]\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Load(write(t, "d.yaml", data))
			assert.ErrorIs(t, err, model.ErrInvalidDataset)
		})
	}
}
