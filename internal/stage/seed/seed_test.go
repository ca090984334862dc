package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestExcludeNamesakeMarksCutoffCandidate(t *testing.T) {
	topic := "Discrete Audio Tokens: More Than a Survey!"
	raw := []model.Paper{
		{ArxivID: "1", Title: "Discrete Audio Tokens: More Than a Survey!", PublishedDate: date("2024-09-01")},
		{ArxivID: "2", Title: "A Different Survey", PublishedDate: date("2024-01-01")},
	}

	pool, namesake := excludeNamesake(raw, topic)
	require.NotNil(t, namesake)
	assert.Equal(t, "1", namesake.ArxivID)
	assert.True(t, namesake.CutoffCandidate)
	require.Len(t, pool, 1)
	assert.Equal(t, "2", pool[0].ArxivID)
}

func TestExcludeNamesakeNoMatch(t *testing.T) {
	pool, namesake := excludeNamesake([]model.Paper{{ArxivID: "2", Title: "Unrelated"}}, "Discrete Audio Tokens")
	assert.Nil(t, namesake)
	assert.Len(t, pool, 1)
}

func TestFilterByCutoffNilPassesThrough(t *testing.T) {
	papers := []model.Paper{{ArxivID: "1"}, {ArxivID: "2"}}
	assert.Equal(t, papers, filterByCutoff(papers, nil))
}

func TestFilterByCutoffExcludesOnOrAfterCutoff(t *testing.T) {
	cutoff := date("2024-08-31")
	papers := []model.Paper{
		{ArxivID: "before", PublishedDate: date("2024-08-01")},
		{ArxivID: "on-cutoff", PublishedDate: date("2024-08-31")},
		{ArxivID: "after", PublishedDate: date("2024-09-15")},
		{ArxivID: "no-date"},
	}
	kept := filterByCutoff(papers, cutoff)
	require.Len(t, kept, 1)
	assert.Equal(t, "before", kept[0].ArxivID)
}

func TestApplyCutoffScenarioA(t *testing.T) {
	topic := "Discrete Audio Tokens: More Than a Survey!"
	raw := []model.Paper{
		{ArxivID: "namesake", Title: topic, PublishedDate: date("2024-09-01")},
	}

	candidates, cutoffRow, cutoffDate := applyCutoff(raw, topic)
	assert.Empty(t, candidates)
	require.NotNil(t, cutoffRow)
	assert.Equal(t, "namesake", cutoffRow.ArxivID)
	require.NotNil(t, cutoffDate)
	assert.Equal(t, "2024-08-31", cutoffDate.Format("2006-01-02"))
}

func TestApplyCutoffWithoutNamesakeKeepsAll(t *testing.T) {
	raw := []model.Paper{
		{ArxivID: "1", Title: "Unrelated Paper", PublishedDate: date("2020-01-01")},
	}
	candidates, cutoffRow, cutoffDate := applyCutoff(raw, "Discrete Audio Tokens")
	assert.Len(t, candidates, 1)
	assert.Nil(t, cutoffRow)
	assert.Nil(t, cutoffDate)
}

func TestPublishedAfterOrdersDescendingNilLast(t *testing.T) {
	assert.True(t, publishedAfter(date("2024-02-01"), date("2024-01-01")))
	assert.False(t, publishedAfter(date("2024-01-01"), date("2024-02-01")))
	assert.True(t, publishedAfter(date("2024-01-01"), nil))
	assert.False(t, publishedAfter(nil, date("2024-01-01")))
	assert.False(t, publishedAfter(nil, nil))
}

func TestBuildSelectionMarksSelectedAndFiltered(t *testing.T) {
	raw := []model.Paper{{ArxivID: "1"}, {ArxivID: "2"}, {ArxivID: "3"}}
	filtered := []model.Paper{{ArxivID: "1"}, {ArxivID: "2"}}
	selected := []model.Paper{{ArxivID: "1"}}

	sel := buildSelection(raw, filtered, selected, nil, nil, []string{"q1"})
	assert.Equal(t, 3, sel.RecordsTotal)
	assert.Equal(t, 2, sel.RecordsAfterFilter)
	assert.Equal(t, []string{"q1"}, sel.SelectedQueries)
	require.Len(t, sel.Rows, 2)
	for _, row := range sel.Rows {
		assert.True(t, row.Filtered)
		assert.Equal(t, row.ArxivID == "1", row.Selected)
	}
	assert.Empty(t, sel.CutoffReason)
}

func TestBuildSelectionRecordsCutoffReason(t *testing.T) {
	cutoff := &model.SeedRow{ArxivID: "namesake"}
	sel := buildSelection(nil, nil, nil, cutoff, nil, nil)
	assert.Equal(t, "topic_namesake_excluded", sel.CutoffReason)
	assert.Equal(t, cutoff, sel.CutoffCandidate)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, TokenAnd, opts.AnchorMode)
	assert.Equal(t, ScopeTitle, opts.Scope)
	assert.True(t, opts.SeedRewriteEnabled)
	assert.Greater(t, opts.MaxResults, 0)
	assert.Greater(t, opts.DownloadTopK, 0)
}
