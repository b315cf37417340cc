package util

import (
	"strings"
	"unicode/utf8"
)

// Split points in order of preference: paragraph breaks, line breaks,
// sentence ends, word boundaries. Hard rune cuts are the last resort.
var separators = []string{"\n\n", "\n", ". ", " "}

// SplitText splits text into chunks of at most chunkSize runes, carrying up
// to overlap runes from the end of each chunk into the next so consecutive
// chunks share context. Text that fits in a single chunk is returned whole.
func SplitText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if utf8.RuneCountInString(trimmed) <= chunkSize {
		return []string{trimmed}
	}
	return pack(segment(text, chunkSize), chunkSize, overlap)
}

// segment cuts text into pieces no longer than max runes, splitting at the
// largest boundary available and keeping separators attached so that
// concatenating the pieces reconstructs the original text.
func segment(text string, max int) []string {
	if utf8.RuneCountInString(text) <= max {
		return []string{text}
	}
	for _, sep := range separators {
		parts := strings.SplitAfter(text, sep)
		// SplitAfter leaves a trailing empty part when text ends with the
		// separator; dropping it first means a split that produced a single
		// part made no progress and the next separator must be tried.
		if parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
		if len(parts) < 2 {
			continue
		}
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, segment(p, max)...)
		}
		return out
	}
	return hardCut(text, max)
}

func hardCut(text string, max int) []string {
	runes := []rune(text)
	out := make([]string, 0, len(runes)/max+1)
	for i := 0; i < len(runes); i += max {
		end := i + max
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}

// pack greedily merges segments into chunks bounded by chunkSize runes.
// After each emitted chunk the raw tail of up to overlap runes seeds the
// next chunk, unless that would push it past the size bound.
func pack(segs []string, chunkSize, overlap int) []string {
	chunks := make([]string, 0)
	cur := ""
	fresh := false
	for _, seg := range segs {
		segLen := utf8.RuneCountInString(seg)
		if cur != "" && utf8.RuneCountInString(cur)+segLen > chunkSize {
			chunk := strings.TrimSpace(cur)
			if chunk != "" && fresh {
				chunks = append(chunks, chunk)
			}
			tail := tailRunes(cur, overlap)
			if overlap > 0 && tail != "" && utf8.RuneCountInString(tail)+segLen <= chunkSize {
				cur = tail
			} else {
				cur = ""
			}
			fresh = false
		}
		cur += seg
		fresh = true
	}
	if chunk := strings.TrimSpace(cur); chunk != "" && fresh {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
