package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
)

func TestApplyHardFilterMissingMetadata(t *testing.T) {
	reason, discard := applyHardFilter(model.Paper{Title: "A title"}, model.CriteriaDocument{}, "")
	assert.True(t, discard)
	assert.Equal(t, model.DiscardMissingMetadata, reason)
}

func TestApplyHardFilterExcludeTitle(t *testing.T) {
	p := model.Paper{Title: "A Survey of Discrete Audio Tokens", Abstract: "abstract"}
	criteria := model.CriteriaDocument{ExcludeTitle: "A Survey of Discrete Audio Tokens"}
	reason, discard := applyHardFilter(p, criteria, "")
	assert.True(t, discard)
	assert.Equal(t, model.DiscardExcludeTitle, reason)
}

func TestApplyHardFilterCutoffDate(t *testing.T) {
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	after := cutoff.AddDate(0, 0, 1)
	p := model.Paper{Title: "T", Abstract: "A", PublishedDate: &after}
	criteria := model.CriteriaDocument{CutoffBeforeDate: &cutoff}
	reason, discard := applyHardFilter(p, criteria, "")
	assert.True(t, discard)
	assert.Equal(t, model.DiscardCutoffDate, reason)
}

func TestApplyHardFilterSurveyFilter(t *testing.T) {
	p := model.Paper{Title: "Another Survey Paper", Abstract: "abstract"}
	reason, discard := applyHardFilter(p, model.CriteriaDocument{}, "")
	assert.True(t, discard)
	assert.Equal(t, model.DiscardSurveyFilter, reason)
}

func TestApplyHardFilterNonEnglish(t *testing.T) {
	p := model.Paper{Title: "离散音频令牌综述", Abstract: "这是一篇关于离散音频令牌的论文"}
	reason, discard := applyHardFilter(p, model.CriteriaDocument{}, "不会匹配的词")
	assert.True(t, discard)
	assert.Equal(t, model.DiscardNonEnglish, reason)
}

func TestApplyHardFilterPassesCleanPaper(t *testing.T) {
	p := model.Paper{Title: "Discrete Audio Tokens for Generation", Abstract: "We study discrete audio tokens."}
	_, discard := applyHardFilter(p, model.CriteriaDocument{}, "not-a-match")
	assert.False(t, discard)
}
