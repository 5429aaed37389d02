// Package route canonicalizes request paths before they reach a mux.
package route

import (
	"net/http"
	"strings"
)

// RedirectTrailingSlash redirects GET and HEAD requests whose path ends in
// "/" to the path without it, keeping the query string.
//
// It returns true when a redirect was written. Route handlers should stop further
// processing when true.
func RedirectTrailingSlash(w http.ResponseWriter, r *http.Request) bool {
	if w == nil || r == nil || r.URL == nil {
		return false
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}

	canonical := strings.TrimRight(r.URL.Path, "/")
	if canonical == "" {
		canonical = "/"
	}
	if canonical == r.URL.Path {
		return false
	}

	target := canonical
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
	return true
}

// Canonical wraps next so non-canonical paths redirect before routing.
func Canonical(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RedirectTrailingSlash(w, r) {
			return
		}
		next.ServeHTTP(w, r)
	})
}
