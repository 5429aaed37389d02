// Package naming turns raw variant keys into picker labels.
//
// Every formatter is total: input that cannot be cased meaningfully comes
// back normalized but otherwise untouched.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Formatter converts a raw variant key into a display label.
type Formatter func(key string) string

var phaseToken = regexp.MustCompile(`^(?i:phase|p)(\d+)$`)

// Normalize replaces underscores and hyphens with spaces and collapses runs of
// whitespace.
func Normalize(raw string) string {
	replaced := strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return r
	}, raw)
	return strings.Join(strings.Fields(replaced), " ")
}

// HeroCostume formats a hero costume key, for example
// "winter_festival" -> "Winter Festival".
func HeroCostume(key string) string {
	normalized := Normalize(key)
	if !hasLetter(normalized) {
		return normalized
	}
	return titleWords(normalized)
}

// BossModel formats a boss form key. A leading "boss" token is dropped and a
// phase suffix is spelled out, for example "boss_ignis_p2" -> "Ignis Phase 2".
func BossModel(key string) string {
	normalized := Normalize(key)
	if !hasLetter(normalized) {
		return normalized
	}

	tokens := strings.Fields(normalized)
	for len(tokens) > 1 && strings.EqualFold(tokens[0], "boss") {
		tokens = tokens[1:]
	}

	last := len(tokens) - 1
	switch {
	case phaseToken.MatchString(tokens[last]):
		digits := phaseToken.FindStringSubmatch(tokens[last])[1]
		tokens = append(tokens[:last], "phase", trimLeadingZeros(digits))
	case last > 0 && strings.EqualFold(tokens[last-1], "phase") && isDigits(tokens[last]):
		tokens[last] = trimLeadingZeros(tokens[last])
	}

	return titleWords(strings.Join(tokens, " "))
}

// titleWords upper-cases the first letter of each word and leaves the rest
// alone so acronyms such as "SSR" survive.
func titleWords(value string) string {
	// Casers are stateful, so each call gets its own.
	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(value)
}

func hasLetter(value string) bool {
	for _, r := range value {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func trimLeadingZeros(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
