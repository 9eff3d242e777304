// Package idgen generates the human-readable natural ids used across both stores.
package idgen

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Prefixes for the natural ids.
const (
	PrefixCustomer = "CUST"
	PrefixWorker   = "ELEC"
	PrefixRequest  = "REQ"
)

// Generator produces ids of the form PREFIX-YYYYMMDD-####.
type Generator interface {
	New(prefix string) string
}

// DateSuffix is the default Generator: today's date plus a random 4 digit suffix.
type DateSuffix struct {
	now    func() time.Time
	suffix func() int
}

// New returns a generator using the wall clock and a random suffix.
func New() *DateSuffix {
	return &DateSuffix{
		now:    time.Now,
		suffix: func() int { return rand.IntN(10000) },
	}
}

// NewWith returns a generator with an injected clock and suffix source.
func NewWith(now func() time.Time, suffix func() int) *DateSuffix {
	return &DateSuffix{now: now, suffix: suffix}
}

// New returns a fresh id for prefix.
func (g *DateSuffix) New(prefix string) string {
	return Format(prefix, g.now(), g.suffix())
}

// Format renders an id from its parts.
func Format(prefix string, at time.Time, suffix int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, at.Format("20060102"), suffix%10000)
}
