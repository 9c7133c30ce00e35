// Package dataset decodes staffing datasets from YAML or JSON files.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/staffalloc/core/model"
)

var validate = validator.New()

type SlotDef struct {
	Day   string `json:"day" yaml:"day" validate:"required"`
	Start string `json:"start" yaml:"start" validate:"required"`
	End   string `json:"end" yaml:"end" validate:"required"`
}

type TeacherDef struct {
	ID         string         `json:"id" yaml:"id" validate:"required"`
	Name       string         `json:"name,omitempty" yaml:"name,omitempty"`
	Saldo      float64        `json:"saldo,omitempty" yaml:"saldo,omitempty"`
	Priorities map[string]int `json:"priorities,omitempty" yaml:"priorities,omitempty" validate:"dive,gte=1"`
}

func (t TeacherDef) ToModel() model.Teacher {
	return model.Teacher{ID: t.ID, Name: t.Name, Saldo: t.Saldo, Priorities: t.Priorities}
}

type SectionDef struct {
	ID    string    `json:"id" yaml:"id" validate:"required"`
	Name  string    `json:"name,omitempty" yaml:"name,omitempty"`
	Load  float64   `json:"load" yaml:"load" validate:"gte=0"`
	Slots []SlotDef `json:"slots,omitempty" yaml:"slots,omitempty" validate:"dive"`
	// Active defaults to true when omitted.
	Active *bool `json:"active,omitempty" yaml:"active,omitempty"`
}

func (s SectionDef) ToModel() model.Section {
	slots := make([]model.TimeSlot, 0, len(s.Slots))
	for _, sl := range s.Slots {
		slots = append(slots, model.TimeSlot{Day: sl.Day, Start: sl.Start, End: sl.End})
	}
	return model.Section{
		ID:     s.ID,
		Name:   s.Name,
		Load:   s.Load,
		Slots:  slots,
		Active: s.Active == nil || *s.Active,
	}
}

type FormDef struct {
	Teacher  string `json:"teacher" yaml:"teacher" validate:"required"`
	Section  string `json:"section" yaml:"section" validate:"required"`
	Priority int    `json:"priority" yaml:"priority" validate:"gte=1"`
}

type LockDef struct {
	Kind    string `json:"kind" yaml:"kind" validate:"oneof=cell row column"`
	Teacher string `json:"teacher,omitempty" yaml:"teacher,omitempty"`
	Section string `json:"section,omitempty" yaml:"section,omitempty"`
}

// File is the on-disk layout of a dataset. Initial maps a section id to the
// teachers assigned to it before the search.
type File struct {
	Teachers []TeacherDef       `json:"teachers" yaml:"teachers" validate:"required,dive"`
	Sections []SectionDef       `json:"sections" yaml:"sections" validate:"required,dive"`
	Forms    []FormDef          `json:"forms,omitempty" yaml:"forms,omitempty" validate:"dive"`
	Locks    []LockDef          `json:"locks,omitempty" yaml:"locks,omitempty" validate:"dive"`
	Initial  map[string][]string `json:"initial,omitempty" yaml:"initial,omitempty"`
}

// Build validates the file and derives the dataset together with its
// initial assignment.
func (f File) Build() (*model.Dataset, model.Assignment, error) {
	if err := validate.Struct(f); err != nil {
		return nil, model.Assignment{}, fmt.Errorf("%w: %w", model.ErrInvalidDataset, err)
	}
	teachers := make([]model.Teacher, 0, len(f.Teachers))
	for _, t := range f.Teachers {
		teachers = append(teachers, t.ToModel())
	}
	sections := make([]model.Section, 0, len(f.Sections))
	for _, s := range f.Sections {
		sections = append(sections, s.ToModel())
	}
	forms := make([]model.PreferenceForm, 0, len(f.Forms))
	for _, fm := range f.Forms {
		forms = append(forms, model.PreferenceForm{TeacherID: fm.Teacher, SectionID: fm.Section, Priority: fm.Priority})
	}
	locks := make([]model.Lock, 0, len(f.Locks))
	for _, l := range f.Locks {
		locks = append(locks, model.Lock{Kind: model.LockKind(l.Kind), TeacherID: l.Teacher, SectionID: l.Section})
	}
	initial := model.AssignmentFromMap(f.Initial)
	ds, err := model.NewDataset(teachers, sections, forms, locks, initial)
	if err != nil {
		return nil, model.Assignment{}, err
	}
	return ds, ds.Baseline(), nil
}

// Decode parses data as YAML or JSON depending on format ("yaml", "yml" or
// "json").
func Decode(data []byte, format string) (File, error) {
	var f File
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return File{}, err
		}
	case "json":
		if err := json.Unmarshal(data, &f); err != nil {
			return File{}, err
		}
	default:
		return File{}, fmt.Errorf("unsupported dataset format: %s", format)
	}
	return f, nil
}

// Load reads the dataset file at path. The format follows the extension.
func Load(path string) (*model.Dataset, model.Assignment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.Assignment{}, err
	}
	f, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, model.Assignment{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return f.Build()
}
