package dataprocessing

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AffirmativeMatcher recognizes the affirmative answer ("SI" by default) in
// the errors and completed columns. Comparison trims surrounding whitespace
// and folds case; accents are folded only when asked.
type AffirmativeMatcher struct {
	token         string
	ignoreAccents bool
}

// NewAffirmativeMatcher creates a matcher for token. An empty token matches
// nothing.
func NewAffirmativeMatcher(token string, ignoreAccents bool) *AffirmativeMatcher {
	m := &AffirmativeMatcher{ignoreAccents: ignoreAccents}
	m.token = m.normalize(token)
	return m
}

// Match reports whether value is the affirmative answer.
func (m *AffirmativeMatcher) Match(value string) bool {
	if m.token == "" {
		return false
	}
	return m.normalize(value) == m.token
}

func (m *AffirmativeMatcher) normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if m.ignoreAccents {
		stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if folded, _, err := transform.String(stripMarks, s); err == nil {
			s = folded
		}
	}
	return cases.Fold().String(s)
}
