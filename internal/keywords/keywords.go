// Package keywords turns a free-text research subject into the ordered
// search terms an enrichment job is created with.
package keywords

import (
	"strings"
	"unicode"
)

var stopwords = map[string]struct{}{}

func init() {
	list := []string{
		"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
		"had", "her", "was", "one", "our", "out", "has", "have", "been",
		"about", "into", "over", "under", "with", "without", "between",
		"this", "that", "these", "those", "there", "their", "them", "then",
		"they", "from", "what", "when", "where", "which", "while", "who",
		"whom", "why", "how", "does", "did", "doing", "during", "each",
		"few", "more", "most", "other", "some", "such", "than", "too",
		"very", "will", "would", "should", "could", "its", "his", "she",
		"him", "were", "being", "both", "after", "before", "above", "below",
		"again", "further", "here", "once", "only", "own", "same", "just",
		"because", "through", "against", "until",
	}
	for _, w := range list {
		stopwords[w] = struct{}{}
	}
}

// Extract lowercases the subject, tokenizes on non-alphanumeric boundaries,
// and drops stopwords and tokens shorter than three characters, preserving
// first-seen order without duplicates.
func Extract(subject string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(subject), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := map[string]struct{}{}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len([]rune(tok)) <= 2 {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
