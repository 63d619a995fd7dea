package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleCSV = `Roll,Name,CGPA,Pref 1,Pref 2,Pref 3
102,Ravi,8.0,2,3,4
101,Asha,9.1,1,2,3
103,Meera,8.0,5,6,7
104,Kiran,7.5,8,9,10
`

func newTestService(t *testing.T, opts ServiceOptions) *Service {
	t.Helper()
	return NewService(DefaultCodes(), opts)
}

// ----------------------------------------------------------------------------
// Service Run Tests
// ----------------------------------------------------------------------------

func TestServiceRun(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})

	run, err := svc.Run(context.Background(), "students.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if run.ID == "" {
		t.Error("run ID is empty")
	}
	if run.FileName != "students.csv" {
		t.Errorf("FileName = %q, want %q", run.FileName, "students.csv")
	}

	// All four tables present with the expected shapes.
	if len(run.Input.Rows) != 4 {
		t.Errorf("input rows = %d, want 4", len(run.Input.Rows))
	}
	if got := len(run.Allocated.Header); got != 7 {
		t.Errorf("allocated columns = %d, want 7", got)
	}
	if got := len(run.Final.Header); got != 4 {
		t.Errorf("final columns = %d, want 4", got)
	}
	if run.Final.Header[3] != AllocatedFacultyColumn {
		t.Errorf("final last column = %q, want %q", run.Final.Header[3], AllocatedFacultyColumn)
	}
	if len(run.Tally.Rows) == 0 {
		t.Error("tally has no rows")
	}

	// Final table keeps the upload's row order.
	wantRolls := []string{"102", "101", "103", "104"}
	for i, want := range wantRolls {
		if run.Final.Rows[i][0] != want {
			t.Errorf("final Rows[%d] roll = %q, want %q", i, run.Final.Rows[i][0], want)
		}
	}

	// Summary reflects the upload.
	if run.Summary.Students != 4 {
		t.Errorf("Summary.Students = %d, want 4", run.Summary.Students)
	}
	if run.Summary.PreferenceRanks != 3 {
		t.Errorf("Summary.PreferenceRanks = %d, want 3", run.Summary.PreferenceRanks)
	}
	if run.Summary.CGPA.Valid != 4 || run.Summary.CGPA.Invalid != 0 {
		t.Errorf("Summary.CGPA = %+v, want 4 valid, 0 invalid", run.Summary.CGPA)
	}
	if run.Summary.FacultyCount != len(run.Tally.Rows) {
		t.Errorf("Summary.FacultyCount = %d, want %d", run.Summary.FacultyCount, len(run.Tally.Rows))
	}
}

func TestServiceRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, ServiceOptions{OutputDir: dir})

	run, err := svc.Run(context.Background(), "students.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	allocation, err := os.ReadFile(filepath.Join(dir, AllocationFileName))
	if err != nil {
		t.Fatalf("read allocation file: %v", err)
	}
	if string(allocation) != string(run.Final.CSV()) {
		t.Error("allocation file does not match the final table")
	}

	tally, err := os.ReadFile(filepath.Join(dir, TallyFileName))
	if err != nil {
		t.Fatalf("read tally file: %v", err)
	}
	if !strings.HasPrefix(string(tally), "Fac,") {
		t.Errorf("tally file starts with %q, want Fac header", string(tally[:min(len(tally), 20)]))
	}
}

func TestServiceRunNoOutputDir(t *testing.T) {
	// An empty OutputDir disables artifact writing; the run still succeeds.
	svc := newTestService(t, ServiceOptions{})

	if _, err := svc.Run(context.Background(), "students.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestServiceRunRejectsBadInput(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{
			name:  "empty upload",
			input: "",
			check: func(err error) bool { return errors.Is(err, ErrEmptyTable) },
		},
		{
			name:  "no cgpa column",
			input: "Roll,Name\n101,Asha\n",
			check: func(err error) bool {
				var colErr *ColumnNotFoundError
				return errors.As(err, &colErr)
			},
		},
		{
			name:  "no preference columns",
			input: "Roll,CGPA\n101,9.1\n",
			check: func(err error) bool {
				var prefErr *NoPreferenceColumnsError
				return errors.As(err, &prefErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := svc.Run(ctx, "bad.csv", []byte(tt.input))
			if run != nil {
				t.Error("Run() returned a run for bad input")
			}
			if !tt.check(err) {
				t.Errorf("Run() error = %v, wrong type", err)
			}
		})
	}

	// Failed runs are not stored.
	if got := len(svc.Runs()); got != 0 {
		t.Errorf("stored runs after failures = %d, want 0", got)
	}
}

// ----------------------------------------------------------------------------
// Run Registry Tests
// ----------------------------------------------------------------------------

func TestServiceGetRun(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})

	run, err := svc.Run(context.Background(), "students.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, err := svc.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got.ID != run.ID {
		t.Errorf("GetRun() ID = %q, want %q", got.ID, run.ID)
	}

	if _, err := svc.GetRun("no-such-run"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun(unknown) error = %v, want ErrRunNotFound", err)
	}
}

func TestServiceRunsNewestFirst(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})
	ctx := context.Background()

	first, err := svc.Run(ctx, "a.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := svc.Run(ctx, "b.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	runs := svc.Runs()
	if len(runs) != 2 {
		t.Fatalf("Runs() = %d entries, want 2", len(runs))
	}
	if runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Error("Runs() not ordered newest first")
	}
}

func TestServiceDeleteRun(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})

	run, err := svc.Run(context.Background(), "students.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if err := svc.DeleteRun(run.ID); err != nil {
		t.Fatalf("DeleteRun() error = %v", err)
	}
	if _, err := svc.GetRun(run.ID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() after delete error = %v, want ErrRunNotFound", err)
	}
	if err := svc.DeleteRun(run.ID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("second DeleteRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestServiceRunExpiry(t *testing.T) {
	svc := newTestService(t, ServiceOptions{Retention: 30 * time.Millisecond})

	run, err := svc.Run(context.Background(), "students.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := svc.GetRun(run.ID); errors.Is(err, ErrRunNotFound) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("run never expired")
}

func TestServiceLimiterStatus(t *testing.T) {
	svc := newTestService(t, ServiceOptions{MaxConcurrent: 2})

	status := svc.LimiterStatus()
	if status.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %d, want 2", status.MaxConcurrent)
	}
	if status.Active != 0 {
		t.Errorf("Active = %d, want 0", status.Active)
	}
}

func TestServiceWaitForRuns(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.WaitForRuns(ctx); err != nil {
		t.Errorf("WaitForRuns() with no runs error = %v", err)
	}
}
