// Package textnorm implements the title/slug normalization rules used
// throughout the pipeline: the workspace slug derivation (§3.1) and the
// normalized_title key used by dedup and the registry (§4.9).
//
// Grounded on the teacher's pkg/strings case-conversion helpers for
// rune-by-rune scanning style; the TeX-command stripping and
// punctuation rules themselves have no teacher or pack precedent, so
// they're implemented directly against stdlib regexp/strings — noted in
// DESIGN.md as a standard-library justification (no grounded text-
// normalization library appears anywhere in the retrieved examples).
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	texCommandRE  = regexp.MustCompile(`\\[a-zA-Z]+\{([^}]*)\}|\\[a-zA-Z]+`)
	nonAlnumRE    = regexp.MustCompile(`[^a-z0-9]+`)
	whitespaceRE  = regexp.MustCompile(`\s+`)
)

// Slug lowercases s, replaces every run of non-alphanumeric characters
// with a single underscore, and trims leading/trailing underscores —
// the workspace directory naming rule in §3.1.
func Slug(s string) string {
	lower := strings.ToLower(s)
	replaced := nonAlnumRE.ReplaceAllString(lower, "_")
	return strings.Trim(replaced, "_")
}

// NormalizedTitle lowercases, strips TeX commands, collapses whitespace
// and strips punctuation, the canonical dedup key per §4.9.
func NormalizedTitle(title string) string {
	stripped := texCommandRE.ReplaceAllString(title, "$1")
	lower := strings.ToLower(stripped)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	collapsed := whitespaceRE.ReplaceAllString(b.String(), " ")
	return strings.TrimSpace(collapsed)
}

// Equal reports whether two titles are equal under normalization, the
// "same-name rule" test used by the seed stage's cutoff-candidate check
// and by exclude_title matching in the review pre-filter.
func Equal(a, b string) bool {
	return NormalizedTitle(a) == NormalizedTitle(b)
}
