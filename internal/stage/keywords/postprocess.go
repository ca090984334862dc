package keywords

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// normalizeTerm replaces underscores with spaces and collapses
// whitespace, per §4.4 step 5.
func normalizeTerm(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// isValidTerm rejects empty terms and anything over 3 whitespace-
// separated tokens, per §8's "no term exceeds 3 whitespace-separated
// tokens."
func isValidTerm(s string) bool {
	return s != "" && len(strings.Fields(s)) <= 3
}

// normalizeTermList normalizes, filters, and case-insensitively dedupes
// terms, preserving first-seen order.
func normalizeTermList(terms []string) []string {
	normalized := make([]string, 0, len(terms))
	for _, t := range terms {
		if n := normalizeTerm(t); isValidTerm(n) {
			normalized = append(normalized, n)
		}
	}
	return lo.UniqBy(normalized, strings.ToLower)
}

// normalizeAnchorTerms normalizes anchor_terms and caps the result at 4
// entries, per the KeywordsPayload invariant of 2-4 noun phrases.
func normalizeAnchorTerms(terms []string) []string {
	out := normalizeTermList(terms)
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

// normalizeSearchTerms normalizes every category's term list and caps
// the total term count across all categories at maxQueries, iterating
// categories in sorted order for deterministic output.
func normalizeSearchTerms(searchTerms map[string][]string, maxQueries int) map[string][]string {
	categories := lo.Keys(searchTerms)
	sort.Strings(categories)

	out := make(map[string][]string, len(categories))
	total := 0
	for _, cat := range categories {
		if total >= maxQueries {
			break
		}
		for _, term := range normalizeTermList(searchTerms[cat]) {
			if total >= maxQueries {
				break
			}
			out[cat] = append(out[cat], term)
			total++
		}
	}
	return out
}
