package web

import (
	"html/template"
	"net/http"

	"github.com/facwise/facalloc/internal/logging"
)

// indexTemplate renders the single-page upload UI.
var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// handleIndex serves the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := struct {
		MaxFileSizeMB int64
	}{
		MaxFileSizeMB: s.cfg.Upload.MaxFileSize / (1024 * 1024),
	}
	if err := indexTemplate.Execute(w, data); err != nil {
		// Headers are already sent; nothing left but to log it.
		logging.FromContext(r.Context()).Error("render index page", "error", err)
	}
}

// handleHealth reports liveness for load balancers and uptime probes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
