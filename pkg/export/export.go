// Package export writes search results as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/staffalloc/core/constraint"
	"github.com/kilianp07/staffalloc/core/model"
	"github.com/kilianp07/staffalloc/core/search"
)

// WriteJSON writes the run result to w in indented JSON format.
func WriteJSON(w io.Writer, res search.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteCSV writes one row per assigned pair, in dataset section order. The
// priority column is empty when the teacher submitted no form.
func WriteCSV(w io.Writer, a model.Assignment, ds *model.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"section", "teacher", "priority"}); err != nil {
		return err
	}
	rows := make([][]string, 0, a.Len())
	done := make(map[string]struct{})
	emit := func(sectionID string) {
		done[sectionID] = struct{}{}
		for _, t := range a.Teachers(sectionID) {
			prio := ""
			if teacher, ok := ds.Teacher(t); ok {
				if p, ok := teacher.Priority(sectionID); ok {
					prio = strconv.Itoa(p)
				}
			}
			rows = append(rows, []string{sectionID, t, prio})
		}
	}
	for _, s := range ds.Sections() {
		emit(s.ID)
	}
	for _, s := range a.Sections() {
		if _, ok := done[s]; !ok {
			emit(s)
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteReportCSV writes the occurrences of every constraint report.
// Constraints without occurrences produce a single row with count 0.
func WriteReportCSV(w io.Writer, reports []constraint.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"constraint", "hard", "active", "value", "occurrence", "count"}); err != nil {
		return err
	}
	for _, r := range reports {
		base := []string{
			r.Name,
			strconv.FormatBool(r.Hard),
			strconv.FormatBool(r.Active),
			strconv.FormatFloat(r.Value, 'f', -1, 64),
		}
		if len(r.Occurrences) == 0 {
			if err := cw.Write(append(base, "", "0")); err != nil {
				return err
			}
			continue
		}
		for _, o := range r.Occurrences {
			rec := append(append([]string(nil), base...), o.Label, strconv.Itoa(o.Count))
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
