package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/facwise/facalloc/internal/core"
	"github.com/facwise/facalloc/internal/logging"
	"github.com/go-chi/chi/v5"
)

// Default preview sizes per table. Clients can ask for more with ?rows=N,
// capped at maxPreviewRows to keep responses bounded.
const (
	defaultInputPreviewRows = 10
	defaultFinalPreviewRows = 20
	defaultTallyPreviewRows = 40
	maxPreviewRows          = 500
)

// RunLinks holds the download URLs for a completed run.
type RunLinks struct {
	Allocation string `json:"allocation"`
	Tally      string `json:"tally"`
}

// RunResponse is the JSON shape of a run returned by the API.
type RunResponse struct {
	RunID     string          `json:"run_id"`
	FileName  string          `json:"file_name"`
	CreatedAt time.Time       `json:"created_at"`
	Duration  string          `json:"duration"`
	Summary   core.RunSummary `json:"summary"`
	Links     RunLinks        `json:"links"`
}

func toResponse(run *core.Run) RunResponse {
	return RunResponse{
		RunID:     run.ID,
		FileName:  run.FileName,
		CreatedAt: run.CreatedAt,
		Duration:  run.Duration.Round(time.Millisecond).String(),
		Summary:   run.Summary,
		Links: RunLinks{
			Allocation: fmt.Sprintf("/api/allocations/%s/allocation.csv", run.ID),
			Tally:      fmt.Sprintf("/api/allocations/%s/tally.csv", run.ID),
		},
	}
}

// readUpload pulls the uploaded CSV out of the multipart form. The error
// strings line up with the user message catalog in core.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return "", nil, errors.New("file too large or invalid form")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, errors.New("no file provided")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("reading upload: %w", err)
	}

	return header.Filename, data, nil
}

// handleCreateRun runs the full allocation pipeline on an uploaded sheet and
// returns the run summary with download links.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	fileName, data, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	run, err := s.service.Run(r.Context(), fileName, data)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(),
		"run_id", run.ID,
		"file", run.FileName,
	).Info("allocation run complete",
		"students", run.Summary.Students,
		"ranks", run.Summary.PreferenceRanks,
		"duration_ms", run.Duration.Milliseconds(),
	)

	writeJSON(w, toResponse(run))
}

// handleAnalyzeUpload parses an uploaded sheet and reports what an allocation
// run would see, without running one.
func (s *Server) handleAnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	_, data, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	table, err := core.ParseTable(data)
	if err != nil {
		respondError(w, r, err)
		return
	}

	layout, err := core.DetectPreferenceColumns(table.Header)
	if err != nil {
		respondError(w, r, err)
		return
	}

	prefs := make([]string, 0, len(layout.Preferences))
	for _, idx := range layout.Preferences {
		prefs = append(prefs, table.Header[idx])
	}

	writeJSON(w, map[string]any{
		"row_count":          len(table.Rows),
		"columns":            table.Header,
		"cgpa_column":        layout.CGPAColumn,
		"preference_columns": prefs,
		"sample":             tableJSON(table.Head(defaultInputPreviewRows)),
	})
}

// handleListRuns returns all stored runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs := s.service.Runs()
	out := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, toResponse(run))
	}
	writeJSON(w, map[string]any{"runs": out})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.getRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, toResponse(run))
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if err := s.service.DeleteRun(runID); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

func (s *Server) handleDownloadAllocation(w http.ResponseWriter, r *http.Request) {
	run, err := s.getRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeCSVAttachment(w, run.Final, core.AllocationFileName)
}

func (s *Server) handleDownloadTally(w http.ResponseWriter, r *http.Request) {
	run, err := s.getRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeCSVAttachment(w, run.Tally, core.TallyFileName)
}

// handleRunPreview returns the head of one of a run's tables as JSON.
// ?table selects input, sorted, final, or tally; ?rows overrides the default
// row count for that table.
func (s *Server) handleRunPreview(w http.ResponseWriter, r *http.Request) {
	run, err := s.getRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	name := r.URL.Query().Get("table")
	if name == "" {
		name = "final"
	}

	var table *core.Table
	var defRows int
	switch name {
	case "input":
		table, defRows = run.Input, defaultInputPreviewRows
	case "sorted":
		table, defRows = run.Allocated, defaultFinalPreviewRows
	case "final":
		table, defRows = run.Final, defaultFinalPreviewRows
	case "tally":
		table, defRows = run.Tally, defaultTallyPreviewRows
	default:
		writeError(w, http.StatusBadRequest, "unknown preview table: "+name)
		return
	}

	rows := parseIntParam(r, "rows", defRows)
	if rows > maxPreviewRows {
		rows = maxPreviewRows
	}

	writeJSON(w, map[string]any{
		"table":     name,
		"row_count": len(table.Rows),
		"preview":   tableJSON(table.Head(rows)),
	})
}

// handleStatus reports stored run count and limiter occupancy.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"runs":    len(s.service.Runs()),
		"limiter": s.service.LimiterStatus(),
	})
}

func (s *Server) getRun(r *http.Request) (*core.Run, error) {
	return s.service.GetRun(chi.URLParam(r, "runID"))
}
