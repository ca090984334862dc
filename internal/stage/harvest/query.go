package harvest

import (
	"fmt"
	"strings"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/anchors"
)

// buildQuery renders the arXiv search_query for one (anchor, term)
// tuple: the anchor's own variant set ORed together in the "all" field,
// ANDed against the term, per §4.5's query-generation rule.
func buildQuery(anchor, term string) string {
	anchorGroup := allOrPhrase(anchors.Variants(anchor))
	return fmt.Sprintf("(%s) AND (%s)", anchorGroup, allPhrase(term))
}

func allOrPhrase(phrases []string) string {
	parts := make([]string, 0, len(phrases))
	for _, p := range phrases {
		parts = append(parts, allPhrase(p))
	}
	return strings.Join(parts, " OR ")
}

func allPhrase(phrase string) string {
	if strings.Contains(phrase, " ") {
		return fmt.Sprintf(`all:"%s"`, phrase)
	}
	return fmt.Sprintf("all:%s", phrase)
}
