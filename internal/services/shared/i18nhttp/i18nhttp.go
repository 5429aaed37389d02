// Package i18nhttp resolves the locale of an HTTP request against the
// registered message catalogs.
package i18nhttp

import (
	"net/http"
	"strings"

	errori18n "github.com/louisbranch/herowiki/internal/platform/errors/i18n"
	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the reader's language preference, set by the
	// wiki front end.
	LangCookieName = "hw_lang"
)

// Supported returns the language tags that have a message catalog, default
// first.
func Supported() []language.Tag {
	locales := errori18n.Locales()
	tags := make([]language.Tag, 0, len(locales))
	for _, locale := range locales {
		if tag, err := language.Parse(locale); err == nil {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.MustParse(errori18n.BaseLocale)
}

// ResolveTag determines the best supported language for the request: the
// lang query param, then the language cookie, then Accept-Language.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return Default()
	}

	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if tag, ok := parseTag(langValue); ok {
			return tag
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := parseTag(cookie.Value); ok {
			return tag
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			if tag, ok := match(tags...); ok {
				return tag
			}
		}
	}

	return Default()
}

// Locale returns the catalog locale for the request.
func Locale(r *http.Request) string {
	return ResolveTag(r).String()
}

func parseTag(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Tag{}, false
	}
	return match(tag)
}

// match returns the supported tag closest to the preferred ones.
func match(preferred ...language.Tag) (language.Tag, bool) {
	supported := Supported()
	if len(supported) == 0 {
		return Default(), false
	}
	_, index, confidence := language.NewMatcher(supported).Match(preferred...)
	if confidence == language.No {
		return Default(), false
	}
	return supported[index], true
}
