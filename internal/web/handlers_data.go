package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/sheetedit/internal/core"
	"github.com/JonMunkholm/sheetedit/internal/logging"
)

// handleGetSheet returns the session view as JSON.
func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r.Context()).View())
}

// handleExport downloads the current projection as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	// Render into a buffer first so a failure can still produce an error
	// response instead of a truncated download.
	var buf bytes.Buffer
	var rows int
	err := sess.Read(func(sh *core.Sheet) error {
		if !sh.Loaded() {
			return core.ErrNotLoaded
		}
		rows = len(sh.Projection())
		return sh.ExportCSV(&buf)
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, core.ExportFileName))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "error", err)
		return
	}
	logging.FromContext(r.Context()).Info("exported sheet", "rows", rows)
}
