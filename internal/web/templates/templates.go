// Package templates holds the HTML components of the editor UI.
//
// Components are written in templ; run `templ generate` after editing a
// .templ file and commit the generated _templ.go next to it.
package templates

import (
	"net/url"

	"github.com/JonMunkholm/sheetedit/internal/core"
)

// UploadData is what the upload page needs.
type UploadData struct {
	Accept    string // value for the file input's accept attribute
	Uploading bool
	Error     *Alert
}

// Alert is a user-facing error shown above a form.
type Alert struct {
	Message string
	Action  string
	Code    string
}

// htmxConfig keeps htmx within the page's Content-Security-Policy (no
// injected indicator styles) and lets error responses swap, so the alert
// partial the server retargets to #alerts is shown.
const htmxConfig = `{"includeIndicatorStyles":false,"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":true}]}`

func sortPath(column string) string {
	return "/api/sort/" + url.PathEscape(column)
}

func selectPath(rowID string) string {
	return "/api/select/" + url.PathEscape(rowID)
}

func sortArrow(d core.Direction) string {
	if d == core.Descending {
		return "▼"
	}
	return "▲"
}

func checkMark(on bool) string {
	if on {
		return "☑"
	}
	return "☐"
}
