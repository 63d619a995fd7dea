package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/facwise/facalloc/internal/metrics"
	"github.com/google/uuid"
)

// Artifact file names used by the download endpoints and the output
// directory.
const (
	AllocationFileName = "output_btp_mtp_allocation.csv"
	TallyFileName      = "fac_preference_count.csv"
)

// ErrRunNotFound is returned when a run ID is unknown or already expired.
var ErrRunNotFound = errors.New("run not found")

const defaultRunRetention = time.Hour

// Run is one completed allocation: the parsed input, the three derived
// tables, and the summary, retained until the run expires or is deleted.
type Run struct {
	ID        string
	FileName  string
	CreatedAt time.Time
	Duration  time.Duration

	// Input is the parsed upload.
	Input *Table
	// Allocated is the CGPA-sorted table with the AllocatedFaculty column.
	Allocated *Table
	// Final is the reconciled table in the original row order.
	Final *Table
	// Tally is the per-faculty preference count table.
	Tally *Table

	Summary RunSummary
}

// ServiceOptions configures a Service. Zero values fall back to defaults.
type ServiceOptions struct {
	// OutputDir, when set, receives the two artifact files after every
	// successful run. Empty disables writing.
	OutputDir string

	// Retention is how long a completed run stays addressable (default 1h).
	Retention time.Duration

	// MaxConcurrent caps parallel runs (default DefaultMaxConcurrentRuns).
	MaxConcurrent int

	// MaxWait bounds the wait for a free run slot (default DefaultRunWait).
	MaxWait time.Duration
}

// Service executes allocation runs and keeps completed runs addressable by
// ID until they expire. Each run works on its own parsed snapshot, so runs
// never observe each other's state.
type Service struct {
	codes     CodeTable
	outputDir string
	retention time.Duration
	limiter   *RunLimiter

	mu   sync.RWMutex
	runs map[string]*Run
}

// NewService creates a Service using the given faculty code table.
func NewService(codes CodeTable, opts ServiceOptions) *Service {
	retention := opts.Retention
	if retention <= 0 {
		retention = defaultRunRetention
	}
	return &Service{
		codes:     codes,
		outputDir: opts.OutputDir,
		retention: retention,
		limiter:   NewRunLimiter(opts.MaxConcurrent, opts.MaxWait),
		runs:      make(map[string]*Run),
	}
}

// Run executes the full pipeline on one uploaded CSV and stores the result.
//
// The pipeline is atomic: any failure discards all intermediate tables, and
// nothing is stored or written to disk.
func (s *Service) Run(ctx context.Context, fileName string, data []byte) (*Run, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		metrics.RecordRunRejected()
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()

	run, err := s.execute(fileName, data)
	if err != nil {
		metrics.RecordRunError()
		return nil, err
	}
	run.Duration = time.Since(start)

	s.mu.Lock()
	s.runs[run.ID] = run
	stored := len(s.runs)
	s.mu.Unlock()

	time.AfterFunc(s.retention, func() { s.expire(run.ID) })

	metrics.RecordRun(run.Duration)
	metrics.RecordStudentsAllocated(run.Summary.Students)
	metrics.UpdateStoredRuns(stored)
	return run, nil
}

// execute parses the upload and derives the three output tables.
func (s *Service) execute(fileName string, data []byte) (*Run, error) {
	input, err := ParseTable(data)
	if err != nil {
		return nil, err
	}

	layout, err := DetectPreferenceColumns(input.Header)
	if err != nil {
		return nil, err
	}

	allocated, err := Allocate(input, s.codes)
	if err != nil {
		return nil, err
	}

	final, err := Reconcile(input, allocated)
	if err != nil {
		return nil, err
	}

	tally, err := Tally(input, s.codes)
	if err != nil {
		return nil, err
	}

	keys := make([]float64, len(input.Rows))
	for i, row := range input.Rows {
		keys[i] = ParseCGPA(row[layout.CGPAIndex])
	}

	run := &Run{
		ID:        uuid.New().String(),
		FileName:  fileName,
		CreatedAt: time.Now(),
		Input:     input,
		Allocated: allocated,
		Final:     final,
		Tally:     tally,
		Summary: RunSummary{
			Students:        len(input.Rows),
			PreferenceRanks: layout.Ranks(),
			FacultyCount:    len(tally.Rows),
			CGPA:            SummarizeCGPA(keys),
		},
	}

	if s.outputDir != "" {
		if err := s.saveOutputs(run); err != nil {
			return nil, err
		}
	}
	return run, nil
}

// saveOutputs writes the two artifact files into the output directory.
func (s *Service) saveOutputs(run *Run) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.outputDir, AllocationFileName), run.Final.CSV(), 0o644); err != nil {
		return fmt.Errorf("write allocation file: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.outputDir, TallyFileName), run.Tally.CSV(), 0o644); err != nil {
		return fmt.Errorf("write tally file: %w", err)
	}
	return nil
}

// GetRun returns a stored run by ID.
func (s *Service) GetRun(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// Runs returns all stored runs, newest first.
func (s *Service) Runs() []*Run {
	s.mu.RLock()
	runs := make([]*Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	s.mu.RUnlock()

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs
}

// DeleteRun discards a stored run.
func (s *Service) DeleteRun(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return ErrRunNotFound
	}
	delete(s.runs, id)
	metrics.UpdateStoredRuns(len(s.runs))
	return nil
}

// expire drops a run after its retention window.
func (s *Service) expire(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; ok {
		delete(s.runs, id)
		metrics.UpdateStoredRuns(len(s.runs))
	}
}

// WaitForRuns blocks until in-flight runs finish or the context is
// canceled. Used during graceful shutdown.
func (s *Service) WaitForRuns(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// LimiterStatus reports the run limiter state.
func (s *Service) LimiterStatus() RunLimiterStatus {
	return s.limiter.Status()
}
