package internal

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// PhraseMatcher finds configured phrases in message text, ignoring case.
// A phrase edge that is a word character must sit on a word boundary, so
// "gm" does not match inside "programming".
type PhraseMatcher struct {
	phrases []string
	folded  []string
}

// NewPhraseMatcher creates a matcher for phrases, keeping their order
func NewPhraseMatcher(phrases []string) *PhraseMatcher {
	m := &PhraseMatcher{}
	for _, p := range phrases {
		f := foldText(strings.TrimSpace(p))
		if f == "" {
			continue
		}
		m.phrases = append(m.phrases, p)
		m.folded = append(m.folded, f)
	}
	return m
}

// Phrases returns the phrases in match order
func (m *PhraseMatcher) Phrases() []string {
	return m.phrases
}

// Match returns the indices of phrases found in text. Every phrase is
// reported at most once no matter how often it occurs.
func (m *PhraseMatcher) Match(text string) []int {
	if text == "" || len(m.folded) == 0 {
		return nil
	}
	haystack := foldText(text)
	var hits []int
	for i, phrase := range m.folded {
		if containsPhrase(haystack, phrase) {
			hits = append(hits, i)
		}
	}
	return hits
}

// foldText case-folds s. Casers hold state, so one is made per call.
func foldText(s string) string {
	return cases.Fold().String(s)
}

func containsPhrase(text, phrase string) bool {
	first, _ := utf8.DecodeRuneInString(phrase)
	last, _ := utf8.DecodeLastRuneInString(phrase)
	checkStart, checkEnd := isWordRune(first), isWordRune(last)

	for offset := 0; offset <= len(text)-len(phrase); {
		idx := strings.Index(text[offset:], phrase)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(phrase)

		ok := true
		if checkStart && start > 0 {
			before, _ := utf8.DecodeLastRuneInString(text[:start])
			ok = !isWordRune(before)
		}
		if ok && checkEnd && end < len(text) {
			after, _ := utf8.DecodeRuneInString(text[end:])
			ok = !isWordRune(after)
		}
		if ok {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
