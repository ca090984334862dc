package review

import (
	"strings"
	"unicode"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/textnorm"
)

// defaultSkipTitlesContaining is §4.7's documented default for the
// configurable survey_filter token.
const defaultSkipTitlesContaining = "survey"

// englishASCIIThreshold is the minimum fraction of ASCII letters a
// title+abstract must carry to pass the heuristic English-language
// check. No example repo in the retrieved corpus imports a language-
// detection library (lingua/whatlanggo/franc and similar never appear
// in any go.mod across the pack), so this stays a small stdlib
// heuristic rather than a fabricated dependency — see DESIGN.md.
const englishASCIIThreshold = 0.85

// applyHardFilter implements §4.7's five pre-filter rules, bypassing any
// LLM call. The first matching rule wins, in the order spec.md lists
// them.
func applyHardFilter(p model.Paper, criteria model.CriteriaDocument, skipTitlesContaining string) (model.DiscardReason, bool) {
	if !p.HasTitleAndAbstract() {
		return model.DiscardMissingMetadata, true
	}
	if criteria.ExcludeTitle != "" && textnorm.Equal(p.Title, criteria.ExcludeTitle) {
		return model.DiscardExcludeTitle, true
	}
	if criteria.CutoffBeforeDate != nil && p.PublishedDate != nil && !p.PublishedDate.Before(*criteria.CutoffBeforeDate) {
		return model.DiscardCutoffDate, true
	}
	if skipTitlesContaining == "" {
		skipTitlesContaining = defaultSkipTitlesContaining
	}
	if strings.Contains(strings.ToLower(p.Title), strings.ToLower(skipTitlesContaining)) {
		return model.DiscardSurveyFilter, true
	}
	if !isLikelyEnglish(p.Title + " " + p.Abstract) {
		return model.DiscardNonEnglish, true
	}
	return "", false
}

// isLikelyEnglish reports whether s's letters are predominantly ASCII,
// a cheap proxy for "heuristic language == English" (§4.7).
func isLikelyEnglish(s string) bool {
	var letters, ascii int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if r <= unicode.MaxASCII {
			ascii++
		}
	}
	if letters == 0 {
		return true
	}
	return float64(ascii)/float64(letters) >= englishASCIIThreshold
}

// IsLikelyEnglish exports the same heuristic for the Snowball Iterate
// Controller's own hard filter (§4.8 step 3), which applies a language
// check outside of this package's per-candidate review flow.
func IsLikelyEnglish(s string) bool { return isLikelyEnglish(s) }
