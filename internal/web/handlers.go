package web

import (
	"net/http"

	"github.com/JonMunkholm/sheetedit/internal/core"
	"github.com/JonMunkholm/sheetedit/internal/web/templates"
)

// handleIndex renders the upload form or the table, depending on whether
// the session has a dataset loaded.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := sessionFrom(r.Context()).View()
	s.renderPage(w, r, view, nil, http.StatusOK)
}

// renderPage writes the full page for view. alert is shown on the upload
// form when an import failed.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, view core.View, alert *templates.Alert, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	page := templates.TablePage(view)
	if view.State == core.ViewUpload {
		page = templates.UploadPage(templates.UploadData{
			Accept:    core.Accept(),
			Uploading: view.Uploading,
			Error:     alert,
		})
	}
	if err := page.Render(r.Context(), w); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
	}
}

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status   string                   `json:"status"`
	Sessions int                      `json:"sessions"`
	Imports  core.ImportLimiterStatus `json:"imports"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Sessions: s.service.Count(),
		Imports:  s.service.Limiter().Status(),
	})
}
