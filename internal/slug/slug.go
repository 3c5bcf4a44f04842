// Package slug turns display names into URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// RE2's \s is ASCII only; include \v, NEL and the Unicode space separators.
	invalidChars = regexp.MustCompile(`[^a-z0-9\s\v\x{85}\p{Z}-]`)
	whitespace   = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)
	hyphens      = regexp.MustCompile(`-+`)
)

// Generate lowercases text, drops everything except ASCII letters, digits,
// whitespace and hyphens, turns whitespace runs into single hyphens and
// collapses repeated hyphens. The result never starts or ends with a hyphen.
//
// Generate does not guarantee uniqueness; callers check for collisions.
func Generate(text string) string {
	s := strings.ToLower(text)
	s = invalidChars.ReplaceAllString(s, "")
	s = strings.TrimFunc(s, unicode.IsSpace)
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
