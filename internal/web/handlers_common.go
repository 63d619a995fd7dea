package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/facwise/facalloc/internal/core"
)

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// tableJSON converts a table to its JSON wire shape.
func tableJSON(t *core.Table) map[string]any {
	return map[string]any{
		"header": t.Header,
		"rows":   t.Rows,
	}
}

// writeCSVAttachment streams a table as a CSV download.
func writeCSVAttachment(w http.ResponseWriter, t *core.Table, filename string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := t.WriteCSV(w); err != nil {
		slog.Error("writing csv download", "file", filename, "error", err)
	}
}
