package util

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitTextShortInputSingleChunk(t *testing.T) {
	chunks := SplitText("hello world", 1000, 200)
	if len(chunks) != 1 || chunks[0] != "hello world" {
		t.Fatalf("unexpected chunks: %#v", chunks)
	}
}

func TestSplitTextEmptyInput(t *testing.T) {
	if chunks := SplitText("   \n ", 1000, 200); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %#v", chunks)
	}
}

func TestSplitTextHardCutWithoutBoundaries(t *testing.T) {
	text := strings.Repeat("a", 2600)
	chunks := SplitText(text, 1000, 200)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if utf8.RuneCountInString(c) > 1000 {
			t.Fatalf("chunk %d exceeds size: %d", i, utf8.RuneCountInString(c))
		}
	}
}

func TestSplitTextPrefersParagraphBoundary(t *testing.T) {
	para1 := strings.Repeat("x", 600)
	para2 := strings.Repeat("y", 600)
	chunks := SplitText(para1+"\n\n"+para2, 1000, 200)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0] != para1 {
		t.Fatalf("first chunk is not the first paragraph")
	}
	if !strings.HasSuffix(chunks[1], para2) {
		t.Fatalf("second chunk does not end with the second paragraph")
	}
	if !strings.HasPrefix(chunks[1], strings.Repeat("x", 198)) {
		t.Fatalf("second chunk does not begin with overlap from the first")
	}
}

func TestSplitTextPrefersWordBoundary(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 400))
	chunks := SplitText(text, 1000, 200)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if utf8.RuneCountInString(c) > 1000 {
			t.Fatalf("chunk %d exceeds size: %d", i, utf8.RuneCountInString(c))
		}
		for _, tok := range strings.Fields(c) {
			if tok != "word" {
				t.Fatalf("chunk %d split inside a word: %q", i, tok)
			}
		}
	}
}

func TestSplitTextOversizedParagraphEndingInBreak(t *testing.T) {
	text := strings.Repeat("a", 1500) + "\n\n" + "tail"
	chunks := SplitText(text, 1000, 200)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0] != strings.Repeat("a", 1000) {
		t.Fatalf("first chunk is not the hard-cut paragraph head")
	}
	if !strings.HasSuffix(chunks[1], "tail") {
		t.Fatalf("second chunk does not end with the trailing paragraph")
	}
	for i, c := range chunks {
		if utf8.RuneCountInString(c) > 1000 {
			t.Fatalf("chunk %d exceeds size: %d", i, utf8.RuneCountInString(c))
		}
	}
}

func TestSplitTextOversizedTokenEndingInSpace(t *testing.T) {
	text := strings.Repeat("b", 1500) + " " + "tail"
	chunks := SplitText(text, 1000, 200)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0] != strings.Repeat("b", 1000) {
		t.Fatalf("first chunk is not the hard-cut token head")
	}
	if !strings.HasSuffix(chunks[1], "tail") {
		t.Fatalf("second chunk does not end with the trailing word")
	}
	for i, c := range chunks {
		if utf8.RuneCountInString(c) > 1000 {
			t.Fatalf("chunk %d exceeds size: %d", i, utf8.RuneCountInString(c))
		}
	}
}

func TestSplitTextOverlapSkippedWhenItWouldOverflow(t *testing.T) {
	text := strings.Repeat("b", 2000)
	chunks := SplitText(text, 1000, 999)
	for i, c := range chunks {
		if utf8.RuneCountInString(c) > 1000 {
			t.Fatalf("chunk %d exceeds size: %d", i, utf8.RuneCountInString(c))
		}
	}
}
