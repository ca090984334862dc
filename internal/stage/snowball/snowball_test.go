package snowball

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
)

func reviewResult(key string, verdict model.Verdict) model.ReviewResult {
	return model.ReviewResult{
		Identifier:   key,
		Metadata:     model.Paper{ArxivID: key, Title: "T " + key},
		FinalVerdict: verdict,
	}
}

func TestIncludedPapersFiltersToIncludeVerdictOnly(t *testing.T) {
	results := []model.ReviewResult{
		reviewResult("1", model.VerdictInclude),
		reviewResult("2", model.VerdictExclude),
		reviewResult("3", model.VerdictInclude),
	}
	got := includedPapers(results)
	assert.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ArxivID)
	assert.Equal(t, "3", got[1].ArxivID)
}

func TestCollectIncludesAccumulatesAcrossRounds(t *testing.T) {
	dst := make(map[string]model.Paper)
	collectIncludes(dst, []model.ReviewResult{reviewResult("1", model.VerdictInclude)})
	collectIncludes(dst, []model.ReviewResult{reviewResult("2", model.VerdictInclude), reviewResult("1", model.VerdictExclude)})
	assert.Len(t, dst, 2)
	// a later round's non-include verdict for an already-included paper
	// does not remove it, since dst is never re-keyed on exclude.
	_, stillThere := dst["1"]
	assert.True(t, stillThere)
}

func TestShouldStopLoopModeStopsAtMaxRounds(t *testing.T) {
	opts := Options{Mode: ModeLoop, MaxRounds: 3}
	assert.False(t, shouldStop(opts, 1, 3, model.RoundMeta{}, 0))
	assert.False(t, shouldStop(opts, 2, 3, model.RoundMeta{}, 0))
	assert.True(t, shouldStop(opts, 3, 3, model.RoundMeta{}, 0))
}

func TestShouldStopWhileModeStopsOnRawThreshold(t *testing.T) {
	opts := Options{Mode: ModeWhile, MaxRounds: 10, StopRawThreshold: 5}
	assert.True(t, shouldStop(opts, 1, 10, model.RoundMeta{RawCount: 5}, 0))
	assert.False(t, shouldStop(opts, 1, 10, model.RoundMeta{RawCount: 4}, 0))
}

func TestShouldStopWhileModeStopsOnCumulativeIncluded(t *testing.T) {
	opts := Options{Mode: ModeWhile, MaxRounds: 10, StopIncludedThreshold: 20}
	assert.True(t, shouldStop(opts, 1, 10, model.RoundMeta{}, 20))
	assert.False(t, shouldStop(opts, 1, 10, model.RoundMeta{}, 19))
}

func TestShouldStopWhileModeWithBothThresholdsZeroStopsAfterRoundOne(t *testing.T) {
	opts := Options{Mode: ModeWhile, MaxRounds: 10}
	assert.True(t, shouldStop(opts, 1, 10, model.RoundMeta{RawCount: 1000}, 1000))
	assert.True(t, shouldStop(opts, 2, 10, model.RoundMeta{}, 0))
}

func TestSummarizeOutcomeTalliesAllVerdicts(t *testing.T) {
	results := []model.ReviewResult{
		reviewResult("1", model.VerdictInclude),
		reviewResult("2", model.VerdictExclude),
		reviewResult("3", model.VerdictDiscard),
		reviewResult("4", model.VerdictNeedsReeval),
	}
	outcome := summarizeOutcome(results)
	assert.Equal(t, model.ReviewOutcome{Include: 1, Exclude: 1, Discard: 1, NeedsEval: 1}, outcome)
}
