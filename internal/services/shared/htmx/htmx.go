// Package htmx renders pages and fragments for htmx-driven widgets.
package htmx

import (
	"encoding/json"
	"html"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// Request and response headers used by htmx.
const (
	RequestHeaderKey = "HX-Request"
	TriggerHeaderKey = "HX-Trigger"
	PushURLHeaderKey = "HX-Push-Url"
)

// IsHTMXRequest reports whether the request was initiated by htmx.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeaderKey), "true")
}

// TitleTag formats an escaped `<title>` element.
func TitleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

// Trigger asks htmx to fire event on the client with detail as its payload.
func Trigger(w http.ResponseWriter, event string, detail any) error {
	payload, err := json.Marshal(map[string]any{event: detail})
	if err != nil {
		return err
	}
	w.Header().Set(TriggerHeaderKey, string(payload))
	return nil
}

// PushURL asks htmx to push url onto the browser history.
func PushURL(w http.ResponseWriter, url string) {
	if url = strings.TrimSpace(url); url != "" {
		w.Header().Set(PushURLHeaderKey, url)
	}
}

// RenderPage renders fragment for htmx requests and wraps it with page for
// every other request. A nil page serves the fragment alone.
func RenderPage(w http.ResponseWriter, r *http.Request, fragment templ.Component, page func(title string, body templ.Component) templ.Component, title string) {
	if fragment == nil {
		return
	}
	if IsHTMXRequest(r) || page == nil {
		templ.Handler(fragment).ServeHTTP(w, r)
		return
	}
	templ.Handler(page(title, fragment)).ServeHTTP(w, r)
}
