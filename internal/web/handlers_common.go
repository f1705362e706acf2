package web

// handlers_common.go holds the request binding and response helpers shared
// by the API handlers.
//
// Every mutation accepts either a JSON body or a form post, and answers in
// one of three ways:
//   - the #sheet partial for htmx requests (HX-Request)
//   - the view as JSON when the client sends or accepts JSON
//   - a redirect to / for plain HTML forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/sheetedit/internal/core"
	"github.com/JonMunkholm/sheetedit/internal/web/templates"
)

var errBadRequest = errors.New("bad request")

// formBinder is implemented by request types that can also be read from a
// url-encoded form.
type formBinder interface {
	bindForm(url.Values) error
}

type searchRequest struct {
	Term string `json:"term"`
}

func (s *searchRequest) bindForm(f url.Values) error {
	s.Term = f.Get("term")
	return nil
}

type selectAllRequest struct {
	All bool `json:"all"`
}

func (s *selectAllRequest) bindForm(f url.Values) error {
	v := f.Get("all")
	if v == "" || v == "on" {
		s.All = v == "on"
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: all=%q", errBadRequest, v)
	}
	s.All = b
	return nil
}

type cellRequest struct {
	RowID  string `json:"rowId"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

func (c *cellRequest) bindForm(f url.Values) error {
	c.RowID = f.Get("rowId")
	c.Column = f.Get("column")
	c.Value = f.Get("value")
	return nil
}

func (c *cellRequest) validate() error {
	if c.RowID == "" || c.Column == "" {
		return fmt.Errorf("%w: rowId and column are required", errBadRequest)
	}
	return nil
}

// bind decodes the request body into v, as JSON when the client sends JSON
// and as a form otherwise.
func bind(r *http.Request, v formBinder) error {
	if wantsJSONBody(r) {
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return v.bindForm(r.PostForm)
}

func wantsJSONBody(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// pathParam returns an unescaped URL parameter.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// respondView answers a successful mutation.
func respondView(w http.ResponseWriter, r *http.Request, view core.View) {
	switch {
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if view.State == core.ViewUpload {
			// The page has no #sheet to swap into; send the browser home.
			w.Header().Set("HX-Redirect", "/")
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := templates.Sheet(view).Render(r.Context(), w); err != nil {
			slog.ErrorContext(r.Context(), "render sheet", "error", err)
		}
	case wantsJSON(r):
		writeJSON(w, http.StatusOK, view)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// mutate runs fn on the request's session sheet and responds with the
// resulting view, or with the mapped error.
func mutate(w http.ResponseWriter, r *http.Request, fn func(*core.Sheet) error) {
	sess := sessionFrom(r.Context())
	view, err := sess.Update(fn)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	respondView(w, r, view)
}

// requireLoaded wraps fn so it fails with ErrNotLoaded on an empty sheet.
func requireLoaded(fn func(*core.Sheet) error) func(*core.Sheet) error {
	return func(sh *core.Sheet) error {
		if !sh.Loaded() {
			return core.ErrNotLoaded
		}
		return fn(sh)
	}
}
