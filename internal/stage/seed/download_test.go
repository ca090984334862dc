package seed

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/httpx"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/source"
)

func TestDownloadAllFetchesEveryPaperConcurrently(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-fake"))
	}))
	defer srv.Close()

	gate := httpx.NewGate(8, 0)
	arxiv := source.NewArxivSource(gate)
	runner := &Runner{Arxiv: arxiv, Log: zap.NewNop()}

	papers := make([]model.Paper, 0, 6)
	for i := 0; i < 6; i++ {
		papers = append(papers, model.Paper{ArxivID: "id" + string(rune('a'+i)), PDFURL: srv.URL})
	}

	dest := t.TempDir()
	results := runner.downloadAll(t.Context(), papers, dest)
	require.Equal(t, 6, results.Attempted)
	assert.Equal(t, 6, results.Succeeded)
	require.Len(t, results.Results, 6)
	for i, res := range results.Results {
		assert.Equal(t, papers[i].ArxivID, res.ArxivID)
		assert.Empty(t, res.Error)
		assert.NotEmpty(t, res.Path)
		assert.EqualValues(t, len("%PDF-fake"), res.SizeBytes)
	}
}

func TestDownloadAllRecordsPerPaperErrors(t *testing.T) {
	runner := &Runner{Arxiv: source.NewArxivSource(httpx.NewGate(4, 0)), Log: zap.NewNop()}
	papers := []model.Paper{{ArxivID: "no-url"}}

	results := runner.downloadAll(t.Context(), papers, t.TempDir())
	require.Len(t, results.Results, 1)
	assert.NotEmpty(t, results.Results[0].Error)
	assert.Equal(t, 0, results.Succeeded)
}

func TestDownloadAllEmptyInput(t *testing.T) {
	runner := &Runner{Arxiv: source.NewArxivSource(httpx.NewGate(4, 0)), Log: zap.NewNop()}
	results := runner.downloadAll(t.Context(), nil, t.TempDir())
	assert.Equal(t, 0, results.Attempted)
	assert.Empty(t, results.Results)
}
