package harvestother

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/source"
)

type fakeSource struct {
	name   string
	papers []model.Paper
	err    error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(ctx context.Context, q source.SearchQuery) ([]model.Paper, error) {
	return f.papers, f.err
}

func (f *fakeSource) Get(ctx context.Context, id string) (model.Paper, error) {
	return model.Paper{}, nil
}

// sequentialPool runs every submitted task synchronously, so fanOut's
// concurrency-pool plumbing can be exercised without depending on
// ants's real goroutine scheduling in a unit test.
type sequentialPool struct{}

func (sequentialPool) Submit(f func()) error {
	f()
	return nil
}

func TestFanOutCollectsOneResultPerSourceAnchorPair(t *testing.T) {
	r := &Runner{
		Sources: []source.MetadataSource{
			&fakeSource{name: "semanticscholar", papers: []model.Paper{{DOI: "10.1/a", Title: "A"}}},
			&fakeSource{name: "dblp", papers: []model.Paper{{DOI: "10.1/b", Title: "B"}}},
		},
		Log: zap.NewNop(),
	}
	results, err := r.fanOut(context.Background(), sequentialPool{}, []string{"anchor one", "anchor two"}, 20)
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestFanOutRecordsPerPairErrorWithoutFailingTheWholeStage(t *testing.T) {
	r := &Runner{
		Sources: []source.MetadataSource{
			&fakeSource{name: "dblp", err: assert.AnError},
		},
		Log: zap.NewNop(),
	}
	results, err := r.fanOut(context.Background(), sequentialPool{}, []string{"anchor"}, 20)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].FailErr)
}

func TestMergeDedupedDropsCrossSourceDuplicatesByCanonicalKey(t *testing.T) {
	bySource := map[string][]model.Paper{
		"semanticscholar": {{DOI: "10.1/x", Title: "X"}},
		"dblp":            {{DOI: "10.1/x", Title: "X (dup)"}},
		"openalex":        {{OpenAlexID: "W1", Title: "Unique"}},
	}
	merged, total := mergeDeduped(bySource)
	assert.Equal(t, 3, total)
	assert.Len(t, merged, 2)
}

func TestMergeDedupedSkipsPapersWithNoCanonicalKey(t *testing.T) {
	bySource := map[string][]model.Paper{
		"dblp": {{Title: ""}},
	}
	merged, _ := mergeDeduped(bySource)
	assert.Empty(t, merged)
}
