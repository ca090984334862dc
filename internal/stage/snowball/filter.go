package snowball

import (
	"time"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/stage/review"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/textnorm"
)

// passesHardFilter implements §4.8 step 3's four rules for one
// candidate: min_date <= published_date < max_date, English heuristic,
// title AND abstract present, normalized_title != exclude_title.
//
// Reuses review.IsLikelyEnglish so the Review Stage and the Snowball
// Controller apply the identical language heuristic rather than two
// independently drifting copies.
func passesHardFilter(p model.Paper, criteria model.CriteriaDocument, minDate, maxDate *time.Time) bool {
	if !p.HasTitleAndAbstract() {
		return false
	}
	if criteria.ExcludeTitle != "" && textnorm.Equal(p.Title, criteria.ExcludeTitle) {
		return false
	}
	if p.PublishedDate == nil {
		return false
	}
	if minDate != nil && p.PublishedDate.Before(*minDate) {
		return false
	}
	if maxDate != nil && !p.PublishedDate.Before(*maxDate) {
		return false
	}
	if !review.IsLikelyEnglish(p.Title + " " + p.Abstract) {
		return false
	}
	return true
}

// resolveMaxDate implements "max_date = criteria.cutoff_before_date - 1
// day unless overridden".
func resolveMaxDate(criteria model.CriteriaDocument, override *time.Time) *time.Time {
	if override != nil {
		return override
	}
	if criteria.CutoffBeforeDate == nil {
		return nil
	}
	d := criteria.CutoffBeforeDate.AddDate(0, 0, -1)
	return &d
}

func filterCandidates(papers []model.Paper, criteria model.CriteriaDocument, minDate, maxDate *time.Time) []model.Paper {
	kept := make([]model.Paper, 0, len(papers))
	for _, p := range papers {
		if passesHardFilter(p, criteria, minDate, maxDate) {
			kept = append(kept, p)
		}
	}
	return kept
}
