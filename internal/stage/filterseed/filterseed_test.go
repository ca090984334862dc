package filterseed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/workspace"
)

func TestCountSelected(t *testing.T) {
	records := []model.ScreeningRecord{{Decision: "yes"}, {Decision: "no"}, {Decision: "yes"}}
	assert.Equal(t, 2, countSelected(records))
}

func TestSplitByDecision(t *testing.T) {
	records := []model.ScreeningRecord{
		{ArxivID: "1", Decision: "yes"},
		{ArxivID: "2", Decision: "no"},
	}
	selected, rejected := splitByDecision(records)
	assert.Equal(t, []string{"1"}, selected)
	assert.Equal(t, []string{"2"}, rejected)
}

func TestSyncFilteredPDFsCopiesSelectedAndRemovesStale(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()

	keptSrc := filepath.Join(srcDir, "1.pdf")
	require.NoError(t, os.WriteFile(keptSrc, []byte("kept"), 0o644))

	staleDest := filepath.Join(destDir, "stale.pdf")
	require.NoError(t, os.WriteFile(staleDest, []byte("stale"), 0o644))

	candidates := []seedCandidate{
		{paper: model.Paper{ArxivID: "1"}, path: keptSrc},
	}

	require.NoError(t, syncFilteredPDFs(candidates, []string{"1"}, destDir))

	data, err := os.ReadFile(filepath.Join(destDir, "1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "kept", string(data))

	_, err = os.Stat(staleDest)
	assert.True(t, os.IsNotExist(err))
}

// sequenceChat returns each response in order, one per call.
type sequenceChat struct {
	responses []string
	calls     int
}

func (s *sequenceChat) Provider() string { return "fake" }

func (s *sequenceChat) Chat(ctx context.Context, systemPrompt, userPrompt string, opts llm.ChatOptions) (llm.ChatResult, error) {
	resp := s.responses[s.calls%len(s.responses)]
	s.calls++
	return llm.ChatResult{Text: resp}, nil
}

func TestRunScreensDownloadedPapersAndWritesOutputs(t *testing.T) {
	root := t.TempDir()
	ws, err := workspace.Resolve(root, "Discrete Audio Tokens")
	require.NoError(t, err)

	pdfPath := filepath.Join(ws.SeedArxivRawDir(), "1.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(pdfPath), 0o755))
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF fake"), 0o644))

	raw := []model.Paper{
		{ArxivID: "1", Title: "A Different Survey", Abstract: "about discrete audio tokens"},
	}
	require.NoError(t, workspace.WriteJSON(filepath.Join(ws.SeedQueriesDir(), "arxiv.json"), raw))

	downloads := model.DownloadResults{
		Attempted: 1, Succeeded: 1,
		Results: []model.DownloadOutcome{{ArxivID: "1", Path: pdfPath}},
	}
	require.NoError(t, workspace.WriteJSON(filepath.Join(ws.SeedQueriesDir(), "download_results.json"), downloads))

	chat := &sequenceChat{responses: []string{`{"decision":"yes","reason":"相关","confidence":0.8}`}}
	r := New(chat, zap.NewNop())

	opts := DefaultOptions()
	opts.Model = "fake-model"
	result, err := r.Run(context.Background(), ws, opts, false)
	require.NoError(t, err)
	assert.Equal(t, model.StageCompleted, result.Status)

	var screening model.ScreeningResult
	require.NoError(t, workspace.ReadJSON(filepath.Join(ws.SeedFiltersDir(), "llm_screening.json"), &screening))
	require.Len(t, screening.Records, 1)
	assert.Equal(t, "yes", screening.Records[0].Decision)
	assert.False(t, screening.FallbackInvoked)

	var selectedIDs model.SelectedIDs
	require.NoError(t, workspace.ReadJSON(filepath.Join(ws.SeedFiltersDir(), "selected_ids.json"), &selectedIDs))
	assert.Equal(t, []string{"1"}, selectedIDs.Selected)
	assert.Empty(t, selectedIDs.Rejected)

	_, err = os.Stat(filepath.Join(ws.SeedTAFilteredDir(), "1.pdf"))
	require.NoError(t, err)
}

func TestRunInvokesLenientFallbackWhenBelowKMin(t *testing.T) {
	root := t.TempDir()
	ws, err := workspace.Resolve(root, "Discrete Audio Tokens")
	require.NoError(t, err)

	pdfPath := filepath.Join(ws.SeedArxivRawDir(), "1.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(pdfPath), 0o755))
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF fake"), 0o644))

	raw := []model.Paper{{ArxivID: "1", Title: "Unrelated", Abstract: "unrelated abstract"}}
	require.NoError(t, workspace.WriteJSON(filepath.Join(ws.SeedQueriesDir(), "arxiv.json"), raw))

	downloads := model.DownloadResults{
		Attempted: 1, Succeeded: 1,
		Results: []model.DownloadOutcome{{ArxivID: "1", Path: pdfPath}},
	}
	require.NoError(t, workspace.WriteJSON(filepath.Join(ws.SeedQueriesDir(), "download_results.json"), downloads))

	chat := &sequenceChat{responses: []string{
		`{"decision":"no","reason":"不符合","confidence":0.3}`,
		`{"decision":"yes","reason":"勉强相关","confidence":0.4}`,
	}}
	r := New(chat, zap.NewNop())

	opts := DefaultOptions()
	opts.Model = "fake-model"
	opts.KMin = 1
	result, err := r.Run(context.Background(), ws, opts, false)
	require.NoError(t, err)
	assert.Equal(t, model.StageCompleted, result.Status)

	var screening model.ScreeningResult
	require.NoError(t, workspace.ReadJSON(filepath.Join(ws.SeedFiltersDir(), "llm_screening.json"), &screening))
	assert.True(t, screening.FallbackInvoked)
	require.Len(t, screening.Records, 1)
	assert.Equal(t, "yes", screening.Records[0].Decision)
	assert.True(t, screening.Records[0].Fallback)
}

func TestRunFailsFastWithNoDownloadedCandidates(t *testing.T) {
	root := t.TempDir()
	ws, err := workspace.Resolve(root, "Discrete Audio Tokens")
	require.NoError(t, err)

	require.NoError(t, workspace.WriteJSON(filepath.Join(ws.SeedQueriesDir(), "arxiv.json"), []model.Paper{}))
	downloads := model.DownloadResults{Attempted: 0, Succeeded: 0}
	require.NoError(t, workspace.WriteJSON(filepath.Join(ws.SeedQueriesDir(), "download_results.json"), downloads))

	r := New(&sequenceChat{}, zap.NewNop())
	_, err = r.Run(context.Background(), ws, DefaultOptions(), false)
	require.Error(t, err)
}
