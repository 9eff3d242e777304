// Package sanitize cleans user-provided text before it reaches either store.
// Both the database and the spreadsheet ledger are read by people, so markup is
// stripped and single-line fields are flattened.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	spaceRun     = regexp.MustCompile(`\s+`)
	entities     = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&", "&quot;", "\"", "&#39;", "'")
)

// StripHTML removes tags, decodes common entities and strips again so encoded tags do not survive.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = entities.Replace(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text cleans multi-line free text such as an issue description.
func Text(s string) string {
	return StripHTML(s)
}

// Line cleans a single-line field (names, cities, addresses). Newlines and tabs
// would split a spreadsheet cell visually, so all whitespace runs become one space.
func Line(s string) string {
	return spaceRun.ReplaceAllString(StripHTML(s), " ")
}

// Email trims and lowercases an address. Lookups by email are case-insensitive.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
