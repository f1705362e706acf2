package web

import (
	"net/http"

	"github.com/JonMunkholm/sheetedit/internal/core"
	"github.com/JonMunkholm/sheetedit/internal/logging"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := bind(r, &req); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	mutate(w, r, requireLoaded(func(sh *core.Sheet) error {
		sh.SetSearch(req.Term)
		return nil
	}))
}

// handleSort applies a header click: a new column sorts ascending, the
// current column flips to descending.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	column := pathParam(r, "column")
	mutate(w, r, requireLoaded(func(sh *core.Sheet) error {
		sh.ToggleSort(column)
		return nil
	}))
}

func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, requireLoaded(func(sh *core.Sheet) error {
		row := sh.AddRow()
		logging.FromContext(r.Context()).Debug("row added", "row_id", row.ID)
		return nil
	}))
}

func (s *Server) handleDeleteSelected(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, requireLoaded(func(sh *core.Sheet) error {
		n := sh.DeleteSelected()
		logging.FromContext(r.Context()).Info("rows deleted", "count", n)
		return nil
	}))
}

func (s *Server) handleToggleSelect(w http.ResponseWriter, r *http.Request) {
	rowID := pathParam(r, "rowID")
	mutate(w, r, requireLoaded(func(sh *core.Sheet) error {
		if _, ok := sh.Row(rowID); !ok {
			return core.ErrRowNotFound
		}
		sh.Toggle(rowID)
		return nil
	}))
}

func (s *Server) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	var req selectAllRequest
	if err := bind(r, &req); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	mutate(w, r, requireLoaded(func(sh *core.Sheet) error {
		sh.SelectAll(req.All)
		return nil
	}))
}

func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	var req cellRequest
	if err := bindCell(r, &req); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	mutate(w, r, requireLoaded(func(sh *core.Sheet) error {
		return sh.BeginEdit(req.RowID, req.Column)
	}))
}

// handleCommitCell writes one cell. The cell input posts it on every
// keystroke while a cell is being edited.
func (s *Server) handleCommitCell(w http.ResponseWriter, r *http.Request) {
	var req cellRequest
	if err := bindCell(r, &req); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	mutate(w, r, requireLoaded(func(sh *core.Sheet) error {
		return sh.CommitEdit(req.RowID, req.Column, req.Value)
	}))
}

func (s *Server) handleEndEdit(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, func(sh *core.Sheet) error {
		sh.EndEdit()
		return nil
	})
}

// handleReset drops the dataset and returns the session to the upload form.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, func(sh *core.Sheet) error {
		sh.Reset()
		logging.FromContext(r.Context()).Info("sheet reset")
		return nil
	})
}

// handleSubmit is the target of the disabled Submit button. There is no
// destination to submit to yet.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, core.ErrSubmitNotImplemented, http.StatusNotImplemented)
}

func bindCell(r *http.Request, req *cellRequest) error {
	if err := bind(r, req); err != nil {
		return err
	}
	return req.validate()
}
