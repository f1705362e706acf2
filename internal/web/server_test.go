package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sheetedit/internal/config"
	"github.com/JonMunkholm/sheetedit/internal/core"
	_ "github.com/JonMunkholm/sheetedit/internal/core/formats"
)

const peopleCSV = "name,age,city\nAlice,30,Paris\nBob,25,Berlin\nCarol,35,Paris\n"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           0,
			RequestTimeout: 10 * time.Second,
		},
		Upload: config.UploadConfig{
			MaxFileSize:   1 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   time.Second,
		},
		Session: config.SessionConfig{
			IdleTimeout: time.Hour,
			MaxSessions: 10,
			CookieName:  "sheet_session",
		},
		Security: config.SecurityConfig{EnableCSP: true},
	}
}

// testClient drives the router like a browser with a single cookie.
type testClient struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	cfg := testConfig()
	service := core.NewService(core.ServiceConfig{
		MaxFileSize:   cfg.Upload.MaxFileSize,
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
		IdleTimeout:   cfg.Session.IdleTimeout,
		MaxSessions:   cfg.Session.MaxSessions,
	})
	return &testClient{t: t, srv: NewServer(service, cfg)}
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.srv.Router().ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == c.srv.cfg.Session.CookieName {
			c.cookie = ck
		}
	}
	return rec
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *testClient) postJSON(path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func (c *testClient) postForm(path string, form url.Values, partial bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if partial {
		req.Header.Set("HX-Request", "true")
	}
	return c.do(req)
}

func (c *testClient) upload(fileName, content string, asJSON bool) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(c.t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if asJSON {
		req.Header.Set("Accept", "application/json")
	}
	return c.do(req)
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) core.View {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var v core.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func names(v core.View) []string {
	out := make([]string, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = core.Display(r.Get("name"))
	}
	return out
}

// loaded returns a client whose session holds the people dataset.
func loaded(t *testing.T) (*testClient, core.View) {
	t.Helper()
	c := newTestClient(t)
	rec := c.upload("people.csv", peopleCSV, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return c, decodeView(t, rec)
}

func TestIndex_OpensSessionAndShowsUploadForm(t *testing.T) {
	c := newTestClient(t)

	rec := c.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, c.cookie, "session cookie should be issued")
	assert.True(t, c.cookie.HttpOnly)
	assert.Contains(t, rec.Body.String(), `type="file"`)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, 1, c.srv.service.Count())

	// Second visit reuses the session.
	c.get("/")
	assert.Equal(t, 1, c.srv.service.Count())
}

func TestUpload_FormRedirectsToTable(t *testing.T) {
	c := newTestClient(t)

	rec := c.upload("people.csv", peopleCSV, false)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	page := c.get("/")
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	assert.Contains(t, body, `id="sheet"`)
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, "Carol")
}

func TestUpload_JSON(t *testing.T) {
	_, view := loaded(t)

	assert.Equal(t, core.ViewTable, view.State)
	assert.Equal(t, 3, view.Total)
	require.Len(t, view.Columns, 3)
	assert.Equal(t, "name", view.Columns[0].Key)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, names(view))
	for _, r := range view.Rows {
		assert.NotEmpty(t, r.ID)
	}
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  string
		status   int
		code     string
	}{
		{"unsupported extension", "notes.txt", "hello", http.StatusUnsupportedMediaType, "FILE007"},
		{"invalid json", "data.json", "{not json", http.StatusUnprocessableEntity, "FILE006"},
		{"header only", "empty.csv", "name,age\n", http.StatusUnprocessableEntity, "FILE005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t)
			rec := c.upload(tt.fileName, tt.content, true)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestUpload_ErrorRerendersFormForBrowsers(t *testing.T) {
	c := newTestClient(t)

	rec := c.upload("notes.txt", "hello", false)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "FILE007")
	assert.Contains(t, body, `type="file"`)
}

func TestUpload_MissingFile(t *testing.T) {
	c := newTestClient(t)
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("x=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	rec := c.do(req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "FILE004", decodeError(t, rec).Code)
}

func TestUpload_TooLarge(t *testing.T) {
	c := newTestClient(t)
	// Just over the file limit but within the multipart allowance, so the
	// size check in the import path rejects it.
	big := "name\n" + strings.Repeat("x\n", 1<<19+16)

	rec := c.upload("big.csv", big, true)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "FILE001", decodeError(t, rec).Code)
}

func TestAPI_RequiresSession(t *testing.T) {
	c := newTestClient(t)
	req := httptest.NewRequest(http.MethodGet, "/api/sheet", nil)
	req.Header.Set("Accept", "application/json")

	rec := c.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SES001", decodeError(t, rec).Code)
	assert.Nil(t, c.cookie, "api routes must not open sessions")
}

func TestAPI_MutationsNeedLoadedSheet(t *testing.T) {
	c := newTestClient(t)
	c.get("/")

	rec := c.postJSON("/api/search", searchRequest{Term: "x"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "SES003", decodeError(t, rec).Code)
}

func TestAPI_GetSheet(t *testing.T) {
	c, _ := loaded(t)

	view := decodeView(t, c.get("/api/sheet"))

	assert.Equal(t, 3, view.Total)
	assert.Len(t, view.Rows, 3)
}

func TestAPI_SearchAndSort(t *testing.T) {
	c, _ := loaded(t)

	view := decodeView(t, c.postJSON("/api/search", searchRequest{Term: "paris"}))
	assert.Equal(t, []string{"Alice", "Carol"}, names(view))
	assert.Equal(t, "paris", view.Search)
	assert.Equal(t, 3, view.Total)

	view = decodeView(t, c.postJSON("/api/search", searchRequest{Term: ""}))
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, names(view))

	view = decodeView(t, c.postJSON("/api/sort/age", nil))
	assert.Equal(t, core.SortConfig{Column: "age", Direction: core.Ascending}, view.Sort)
	assert.Equal(t, []string{"Bob", "Alice", "Carol"}, names(view))

	view = decodeView(t, c.postJSON("/api/sort/age", nil))
	assert.Equal(t, core.Descending, view.Sort.Direction)
	assert.Equal(t, []string{"Carol", "Alice", "Bob"}, names(view))
}

func TestAPI_SortColumnIsUnescaped(t *testing.T) {
	c := newTestClient(t)
	rec := c.upload("cities.csv", "home city,name\nRome,A\nOslo,B\n", true)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeView(t, c.postJSON("/api/sort/"+url.PathEscape("home city"), nil))

	assert.Equal(t, "home city", view.Sort.Column)
	assert.Equal(t, []string{"B", "A"}, names(view))
}

func TestAPI_EditCell(t *testing.T) {
	c, initial := loaded(t)
	bob := initial.Rows[1]

	view := decodeView(t, c.postJSON("/api/edit", cellRequest{RowID: bob.ID, Column: "city"}))
	require.NotNil(t, view.Editing)
	assert.Equal(t, core.EditCursor{RowID: bob.ID, Column: "city"}, *view.Editing)

	view = decodeView(t, c.postJSON("/api/cell", cellRequest{RowID: bob.ID, Column: "city", Value: "Madrid"}))
	assert.Equal(t, "Madrid", view.Rows[1].Get("city"))
	assert.Equal(t, bob.ID, view.Rows[1].ID)
	assert.NotNil(t, view.Editing, "commit keeps the cell in edit mode")

	view = decodeView(t, c.postJSON("/api/edit/end", nil))
	assert.Nil(t, view.Editing)
	assert.Equal(t, "Madrid", view.Rows[1].Get("city"))
}

func TestAPI_EditCellValidation(t *testing.T) {
	c, _ := loaded(t)

	rec := c.postJSON("/api/cell", cellRequest{Column: "city", Value: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.postJSON("/api/cell", cellRequest{RowID: "missing", Column: "city", Value: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ROW001", decodeError(t, rec).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/cell", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec = c.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_SelectAndDelete(t *testing.T) {
	c, initial := loaded(t)
	alice, carol := initial.Rows[0], initial.Rows[2]

	c.postJSON("/api/select/"+alice.ID, nil)
	view := decodeView(t, c.postJSON("/api/select/"+carol.ID, nil))
	assert.ElementsMatch(t, []string{alice.ID, carol.ID}, view.Selected)

	view = decodeView(t, c.postJSON("/api/rows/delete", nil))
	assert.Equal(t, []string{"Bob"}, names(view))
	assert.Equal(t, 1, view.Total)
	assert.Empty(t, view.Selected)

	rec := c.postJSON("/api/select/"+alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_SelectAllFollowsProjection(t *testing.T) {
	c, _ := loaded(t)
	c.postJSON("/api/search", searchRequest{Term: "Berlin"})

	view := decodeView(t, c.postJSON("/api/select-all", selectAllRequest{All: true}))
	require.Len(t, view.Selected, 1)
	assert.Equal(t, view.Rows[0].ID, view.Selected[0])
	assert.True(t, view.AllSelected())

	view = decodeView(t, c.postJSON("/api/select-all", selectAllRequest{All: false}))
	assert.Empty(t, view.Selected)
}

func TestAPI_AddRow(t *testing.T) {
	c, _ := loaded(t)

	view := decodeView(t, c.postJSON("/api/rows", nil))

	assert.Equal(t, 4, view.Total)
	require.Len(t, view.Rows, 4)
	assert.NotEmpty(t, view.Rows[3].ID)
	assert.Equal(t, "", core.Display(view.Rows[3].Get("name")))
}

func TestAPI_Reset(t *testing.T) {
	c, _ := loaded(t)

	view := decodeView(t, c.postJSON("/api/reset", nil))
	assert.Equal(t, core.ViewUpload, view.State)
	assert.Empty(t, view.Rows)

	page := c.get("/")
	assert.Contains(t, page.Body.String(), `type="file"`)
}

func TestAPI_Submit(t *testing.T) {
	c, _ := loaded(t)

	rec := c.postJSON("/api/submit", nil)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "SUB001", decodeError(t, rec).Code)
}

func TestAPI_Export(t *testing.T) {
	c, _ := loaded(t)
	c.postJSON("/api/search", searchRequest{Term: "paris"})
	c.postJSON("/api/sort/name", nil)
	c.postJSON("/api/sort/name", nil)

	rec := c.get("/api/export")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), core.ExportFileName)
	assert.Equal(t, "name,age,city\nCarol,35,Paris\nAlice,30,Paris\n", rec.Body.String())
}

func TestAPI_ExportBeforeUpload(t *testing.T) {
	c := newTestClient(t)
	c.get("/")

	rec := c.get("/api/export")

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_FormPostsRedirect(t *testing.T) {
	c, _ := loaded(t)

	rec := c.postForm("/api/search", url.Values{"term": {"bob"}}, false)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	view := decodeView(t, c.get("/api/sheet"))
	assert.Equal(t, []string{"Bob"}, names(view))
}

func TestAPI_PartialResponses(t *testing.T) {
	c, _ := loaded(t)

	rec := c.postForm("/api/search", url.Values{"term": {"berlin"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="sheet"`)
	assert.Contains(t, body, "Bob")
	assert.NotContains(t, body, "Alice")
	assert.NotContains(t, body, "<html")

	rec = c.postForm("/api/select-all", url.Values{"all": {"maybe"}}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.postForm("/api/reset", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("HX-Redirect"))
}

func TestAPI_SubmitPartial(t *testing.T) {
	c, _ := loaded(t)

	rec := c.postForm("/api/submit", nil, true)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUB001")
	assert.Equal(t, "#alerts", rec.Header().Get("HX-Retarget"))
	assert.Equal(t, "innerHTML", rec.Header().Get("HX-Reswap"))
}

func TestHealth(t *testing.T) {
	c := newTestClient(t)
	c.get("/")

	rec := c.get("/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	var h healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 1, h.Sessions)
	assert.Equal(t, 2, h.Imports.MaxConcurrent)
	assert.Equal(t, 2, h.Imports.Available)
}

func TestStaticAssets(t *testing.T) {
	c := newTestClient(t)

	rec := c.get("/static/sheet.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".grid")

	rec = c.get("/")
	assert.Contains(t, rec.Body.String(), `<script src="/static/htmx.min.js" defer></script>`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{core.ErrUnsupportedFormat, http.StatusUnsupportedMediaType},
		{core.ErrInvalidCSV, http.StatusUnprocessableEntity},
		{core.ErrImportInProgress, http.StatusConflict},
		{core.ErrSessionNotFound, http.StatusNotFound},
		{core.ErrTooManyImports, http.StatusServiceUnavailable},
		{core.ErrTooManySessions, http.StatusServiceUnavailable},
		{errRateLimited, http.StatusTooManyRequests},
		{errBadRequest, http.StatusBadRequest},
		{core.ErrSubmitNotImplemented, http.StatusNotImplemented},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
