package core

import (
	"math"
	"sort"
)

// AllocatedFacultyColumn is the column appended by Allocate and consumed by
// Reconcile.
const AllocatedFacultyColumn = "AllocatedFaculty"

// Allocate produces the CGPA-ranked allocation table.
//
// Preference cells are canonicalized through the code table, rows are sorted
// by numeric CGPA descending, and each row gains an AllocatedFaculty cell
// holding the row's own preference at rank (position in the sorted order
// mod number of ranks). Walking the sorted order therefore cycles through
// preference depths 1, 2, ..., N, 1, 2, ... so the strongest students in
// each cycle get their earlier choices.
//
// The sort is stable: rows with equal CGPA keep their input order, and rows
// whose CGPA does not parse sort after every valid value. The input table is
// not modified.
func Allocate(t *Table, codes CodeTable) (*Table, error) {
	layout, err := DetectPreferenceColumns(t.Header)
	if err != nil {
		return nil, err
	}

	keys := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		keys[i] = ParseCGPA(row[layout.CGPAIndex])
	}

	order := make([]int, len(t.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return cgpaBefore(keys[order[i]], keys[order[j]])
	})

	out := &Table{
		Header: append(append([]string(nil), t.Header...), AllocatedFacultyColumn),
		Rows:   make([][]string, len(t.Rows)),
	}

	ranks := layout.Ranks()
	for pos, idx := range order {
		src := t.Rows[idx]
		row := make([]string, len(src), len(src)+1)
		copy(row, src)
		for _, p := range layout.Preferences {
			row[p] = codes.Canonical(row[p])
		}

		rankCol := layout.Preferences[pos%ranks]
		out.Rows[pos] = append(row, row[rankCol])
	}
	return out, nil
}

// cgpaBefore reports whether CGPA a ranks ahead of b: descending numeric
// order with NaN after every valid value. NaN against NaN reports false so
// the stable sort keeps their input order.
func cgpaBefore(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}
