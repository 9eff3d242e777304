package idgen

import (
	"regexp"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	at := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	if got := Format(PrefixRequest, at, 42); got != "REQ-20260309-0042" {
		t.Fatalf("Format() = %q", got)
	}
	if got := Format(PrefixCustomer, at, 12345); got != "CUST-20260309-2345" {
		t.Fatalf("Format() with overflow = %q", got)
	}
}

func TestDefaultGeneratorShape(t *testing.T) {
	pattern := regexp.MustCompile(`^ELEC-\d{8}-\d{4}$`)
	g := New()
	for i := 0; i < 50; i++ {
		if id := g.New(PrefixWorker); !pattern.MatchString(id) {
			t.Fatalf("unexpected id %q", id)
		}
	}
}
