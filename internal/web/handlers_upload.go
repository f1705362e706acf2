package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/sheetedit/internal/core"
	"github.com/JonMunkholm/sheetedit/internal/logging"
	"github.com/JonMunkholm/sheetedit/internal/web/templates"
)

// multipartOverhead leaves room for the form boundary and headers on top
// of the file itself.
const multipartOverhead = 64 << 10

// handleUpload imports the multipart "file" field into the session.
// Browsers are redirected to / on success and shown the upload form with
// an alert on failure; JSON clients get the view or an error body.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	maxSize := s.service.Config().MaxFileSize

	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.uploadFailed(w, r, sess, core.ErrFileTooLarge)
			return
		}
		s.uploadFailed(w, r, sess, core.ErrNoFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.uploadFailed(w, r, sess, core.ErrNoFile)
		return
	}
	defer file.Close()

	logger := logging.WithFields(r.Context(),
		"file", header.Filename,
		"size", header.Size,
	)
	logger.Info("import started")

	view, err := s.service.Import(r.Context(), sess.ID, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		s.uploadFailed(w, r, sess, err)
		return
	}

	logger.Info("import finished", "rows", view.Total, "columns", len(view.Columns))

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, view)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// uploadFailed reports an import error. Browsers get the current page back
// with the error shown above the upload form.
func (s *Server) uploadFailed(w http.ResponseWriter, r *http.Request, sess *core.Session, err error) {
	status := statusFor(err)
	if wantsJSON(r) || isHTMX(r) {
		respondError(w, r, err, status)
		return
	}

	msg := core.MapError(err)
	logging.FromContext(r.Context()).Warn("import failed",
		"error", err.Error(),
		"code", msg.Code,
	)
	s.renderPage(w, r, sess.View(), &templates.Alert{
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}, status)
}
