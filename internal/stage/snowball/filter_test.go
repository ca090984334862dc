package snowball

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
)

func mkPaper(title, abstract string, published time.Time) model.Paper {
	return model.Paper{Title: title, Abstract: abstract, PublishedDate: &published}
}

func TestPassesHardFilterRejectsMissingAbstract(t *testing.T) {
	p := model.Paper{Title: "T"}
	assert.False(t, passesHardFilter(p, model.CriteriaDocument{}, nil, nil))
}

func TestPassesHardFilterRejectsExcludeTitle(t *testing.T) {
	p := mkPaper("Exact Match Title", "abstract text", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	criteria := model.CriteriaDocument{ExcludeTitle: "Exact Match Title"}
	assert.False(t, passesHardFilter(p, criteria, nil, nil))
}

func TestPassesHardFilterRejectsOutsideDateWindow(t *testing.T) {
	min := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	before := mkPaper("A Clean Title", "abstract text", time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC))
	after := mkPaper("A Clean Title", "abstract text", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, passesHardFilter(before, model.CriteriaDocument{}, &min, &max))
	assert.False(t, passesHardFilter(after, model.CriteriaDocument{}, &min, &max))
}

func TestPassesHardFilterAcceptsCleanPaperInWindow(t *testing.T) {
	min := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	p := mkPaper("A Clean Title", "abstract text", time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, passesHardFilter(p, model.CriteriaDocument{}, &min, &max))
}

func TestResolveMaxDateUsesOverrideWhenSet(t *testing.T) {
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	override := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	criteria := model.CriteriaDocument{CutoffBeforeDate: &cutoff}
	got := resolveMaxDate(criteria, &override)
	assert.True(t, got.Equal(override))
}

func TestResolveMaxDateSubtractsOneDayFromCutoff(t *testing.T) {
	cutoff := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	criteria := model.CriteriaDocument{CutoffBeforeDate: &cutoff}
	got := resolveMaxDate(criteria, nil)
	assert.True(t, got.Equal(cutoff.AddDate(0, 0, -1)))
}

func TestResolveMaxDateNilWhenNoCutoffOrOverride(t *testing.T) {
	assert.Nil(t, resolveMaxDate(model.CriteriaDocument{}, nil))
}
