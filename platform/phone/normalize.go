// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	defaultRegion = "IN"
	countryPrefix = "+91"
	nationalLen   = 10
)

// Clean trims the input and strips the separators people type between digit groups.
// A leading "+" is kept.
func Clean(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	for i, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ', r == '-', r == '(', r == ')', r == '.':
		default:
			// Not a phone-ish string; leave it for validation to reject.
			return trimmed
		}
	}
	return b.String()
}

// AltFormat toggles the country-code prefix: "+91XXXXXXXXXX" <-> "XXXXXXXXXX".
// Inputs that are neither form are returned cleaned but otherwise unchanged.
func AltFormat(input string) string {
	cleaned := Clean(input)
	if rest, ok := strings.CutPrefix(cleaned, countryPrefix); ok && isDigits(rest) && len(rest) == nationalLen {
		return rest
	}
	if isDigits(cleaned) && len(cleaned) == nationalLen {
		return countryPrefix + cleaned
	}
	return cleaned
}

// Equivalent reports whether a and b denote the same number under the prefix rule.
func Equivalent(a, b string) bool {
	ca, cb := Clean(a), Clean(b)
	if ca == "" || cb == "" {
		return false
	}
	return ca == cb || AltFormat(ca) == cb
}

// IsPossible reports whether input parses as a possible number for the default region.
func IsPossible(input string) bool {
	cleaned := Clean(input)
	if cleaned == "" {
		return false
	}

	number, err := phonenumbers.Parse(cleaned, defaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsPossibleNumber(number)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
