package core

import (
	"errors"
	"strconv"
	"testing"
)

// ----------------------------------------------------------------------------
// Tally Tests
// ----------------------------------------------------------------------------

func TestTallyCountsPerRank(t *testing.T) {
	table := &Table{
		Header: []string{"Roll", "CGPA", "Pref 1", "Pref 2"},
		Rows: [][]string{
			{"101", "9.1", "1", "2"},
			{"102", "8.0", "1", "3"},
			{"103", "7.5", "2", "1"},
		},
	}

	got, err := Tally(table, DefaultCodes())
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}

	wantHeader := []string{"Fac", "Count Pref 1", "Count Pref 2"}
	for i, want := range wantHeader {
		if got.Header[i] != want {
			t.Errorf("Header[%d] = %q, want %q", i, got.Header[i], want)
		}
	}

	// Names sorted ascending: ABM (code 1), AE (code 2), AM (code 3).
	wantRows := [][]string{
		{"ABM", "2", "1"},
		{"AE", "1", "1"},
		{"AM", "0", "1"},
	}
	if len(got.Rows) != len(wantRows) {
		t.Fatalf("row count = %d, want %d", len(got.Rows), len(wantRows))
	}
	for i, want := range wantRows {
		for j, cell := range want {
			if got.Rows[i][j] != cell {
				t.Errorf("Rows[%d][%d] = %q, want %q", i, j, got.Rows[i][j], cell)
			}
		}
	}
}

func TestTallySortsNames(t *testing.T) {
	table := &Table{
		Header: []string{"Roll", "CGPA", "Pref 1"},
		Rows: [][]string{
			{"101", "9.1", "SS"},
			{"102", "8.0", "ABM"},
			{"103", "7.5", "MA"},
		},
	}

	got, err := Tally(table, DefaultCodes())
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}

	wantNames := []string{"ABM", "MA", "SS"}
	for i, want := range wantNames {
		if got.Rows[i][0] != want {
			t.Errorf("Rows[%d] name = %q, want %q", i, got.Rows[i][0], want)
		}
	}
}

func TestTallyMergesCodeForms(t *testing.T) {
	// "7", "7.0" and "JM" are the same faculty and must land in one row.
	table := &Table{
		Header: []string{"Roll", "CGPA", "Pref 1"},
		Rows: [][]string{
			{"101", "9.1", "7"},
			{"102", "8.0", "7.0"},
			{"103", "7.5", "JM"},
		},
	}

	got, err := Tally(table, DefaultCodes())
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}

	if len(got.Rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(got.Rows))
	}
	if got.Rows[0][0] != "JM" || got.Rows[0][1] != "3" {
		t.Errorf("row = %v, want [JM 3]", got.Rows[0])
	}
}

func TestTallyExcludesBlanks(t *testing.T) {
	table := &Table{
		Header: []string{"Roll", "CGPA", "Pref 1", "Pref 2"},
		Rows: [][]string{
			{"101", "9.1", "1", ""},
			{"102", "8.0", "", "  "},
		},
	}

	got, err := Tally(table, DefaultCodes())
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}

	if len(got.Rows) != 1 {
		t.Fatalf("row count = %d, want 1 (blanks excluded)", len(got.Rows))
	}
	if got.Rows[0][0] != "ABM" {
		t.Errorf("Rows[0] name = %q, want %q", got.Rows[0][0], "ABM")
	}
}

func TestTallyCountsEveryNonEmptyCell(t *testing.T) {
	// Total tallied count equals the number of non-empty preference cells.
	table := studentTable()

	got, err := Tally(table, DefaultCodes())
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}

	total := 0
	for _, row := range got.Rows {
		for _, cell := range row[1:] {
			n, err := strconv.Atoi(cell)
			if err != nil {
				t.Fatalf("non-numeric count %q", cell)
			}
			total += n
		}
	}

	// 4 students x 3 preference columns, none blank.
	if total != 12 {
		t.Errorf("total counted = %d, want 12", total)
	}
}

func TestTallyDetectionError(t *testing.T) {
	table := &Table{Header: []string{"Roll", "Name"}, Rows: [][]string{{"101", "Asha"}}}

	var colErr *ColumnNotFoundError
	if _, err := Tally(table, DefaultCodes()); !errors.As(err, &colErr) {
		t.Errorf("Tally(no cgpa) error = %v, want ColumnNotFoundError", err)
	}
}
