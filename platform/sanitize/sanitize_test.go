package sanitize

import "testing"

func TestLineFlattensAndStrips(t *testing.T) {
	got := Line("  <b>New</b>\n\tDelhi  ")
	if got != "New Delhi" {
		t.Fatalf("expected %q, got %q", "New Delhi", got)
	}
}

func TestTextStripsEncodedTags(t *testing.T) {
	got := Text("fan &lt;script&gt;alert(1)&lt;/script&gt; broken")
	if got != "fan alert(1) broken" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestEmail(t *testing.T) {
	if got := Email("  Asha@Example.COM "); got != "asha@example.com" {
		t.Fatalf("unexpected %q", got)
	}
}
