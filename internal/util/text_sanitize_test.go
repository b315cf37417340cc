package util

import "testing"

func TestSanitizeTextRemovesNulAndControls(t *testing.T) {
	in := "ab\x00cd\x01\x02\n\txy"
	out := SanitizeText(in)
	if out != "abcd\n\txy" {
		t.Fatalf("unexpected sanitized output: %q", out)
	}
}

func TestSanitizeTextReplacesInvalidUTF8(t *testing.T) {
	// Lone surrogate half encoded as WTF-8, as seen in broken PDF text.
	in := "ok\xed\xa0\x80ok"
	out := SanitizeText(in)
	if out != "okok" {
		t.Fatalf("unexpected sanitized output: %q", out)
	}
}
