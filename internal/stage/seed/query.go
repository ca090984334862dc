package seed

import (
	"fmt"
	"strings"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/anchors"
)

// AnchorMode selects how the topic's anchor variants are combined into
// the arXiv query's anchor group (§4.2 step 1).
type AnchorMode string

const (
	// TokenAnd ANDs each anchor's own words together, then ORs the
	// anchor variants against each other.
	TokenAnd AnchorMode = "token_and"
	// CoreTokenOr ORs every distinct token across all anchor variants,
	// ignoring phrase boundaries entirely.
	CoreTokenOr AnchorMode = "core_token_or"
	// ExactPhrase ORs each anchor variant as a quoted exact phrase.
	ExactPhrase AnchorMode = "exact_phrase"
)

// Scope selects which arXiv fields the query searches.
type Scope string

const (
	ScopeTitle Scope = "ti"
	ScopeAll   Scope = "all"
)

// docTypes are the fixed document-type terms every seed query ANDs
// against the anchor group, per §4.2 step 1.
var docTypes = []string{
	"survey", "review", "overview", "systematic review", "tutorial",
	"mapping study", "scoping review",
}

// BuildQuery renders the initial arXiv search_query string combining
// topic's anchor group (per mode) with the fixed doctype group, scoped
// to the requested field.
func BuildQuery(topic string, mode AnchorMode, scope Scope) string {
	return buildQueryFromAnchors(anchors.Variants(topic), mode, scope)
}

// buildQueryFromAnchors is BuildQuery's core, split out so the rewrite
// loop can drive it with LLM-supplied phrases instead of the
// topic-derived anchor set.
func buildQueryFromAnchors(anchorTerms []string, mode AnchorMode, scope Scope) string {
	anchorGroup := anchorExpr(anchorTerms, mode, scope)
	doctypeGroup := orPhrase(docTypes, scope)
	return fmt.Sprintf("(%s) AND (%s)", anchorGroup, doctypeGroup)
}

func anchorExpr(terms []string, mode AnchorMode, scope Scope) string {
	switch mode {
	case TokenAnd:
		parts := make([]string, 0, len(terms))
		for _, t := range terms {
			parts = append(parts, andWords(t, scope))
		}
		return strings.Join(parts, " OR ")
	case CoreTokenOr:
		tokens := coreTokens(terms)
		return orPhrase(tokens, scope)
	case ExactPhrase:
		return orPhrase(terms, scope)
	default:
		return orPhrase(terms, scope)
	}
}

func andWords(phrase string, scope Scope) string {
	words := strings.Fields(phrase)
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, fmt.Sprintf("%s:%s", scope, w))
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

func orPhrase(phrases []string, scope Scope) string {
	parts := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if strings.Contains(p, " ") {
			parts = append(parts, fmt.Sprintf(`%s:"%s"`, scope, p))
		} else {
			parts = append(parts, fmt.Sprintf("%s:%s", scope, p))
		}
	}
	return strings.Join(parts, " OR ")
}

func coreTokens(phrases []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range phrases {
		for _, w := range strings.Fields(p) {
			key := strings.ToLower(w)
			if !seen[key] {
				seen[key] = true
				out = append(out, key)
			}
		}
	}
	return out
}
