package snowball

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
)

type fakeCitationSource struct {
	resolveID string
	resolveErr error
	forward   []model.Paper
	backward  []model.Paper
}

func (f *fakeCitationSource) ResolveID(ctx context.Context, doi, title string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	return f.resolveID, nil
}

func (f *fakeCitationSource) ForwardCitations(ctx context.Context, openAlexID string, maxResults int) ([]model.Paper, error) {
	return f.forward, nil
}

func (f *fakeCitationSource) BackwardReferences(ctx context.Context, openAlexID string, maxResults int) ([]model.Paper, error) {
	return f.backward, nil
}

func TestExpandSeedsMergesForwardAndBackwardDeduped(t *testing.T) {
	src := &fakeCitationSource{
		resolveID: "W1",
		forward:   []model.Paper{{OpenAlexID: "W2", Title: "Forward One"}},
		backward:  []model.Paper{{OpenAlexID: "W2", Title: "Forward One"}, {OpenAlexID: "W3", Title: "Backward One"}},
	}
	seeds := []model.Paper{{Title: "Seed", DOI: "10.1/seed"}}

	merged, err := expandSeeds(context.Background(), src, seeds, 50, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, merged, 2)
}

func TestExpandSeedsUsesExistingOpenAlexIDWithoutResolving(t *testing.T) {
	src := &fakeCitationSource{
		resolveErr: assert.AnError,
		forward:    []model.Paper{{OpenAlexID: "W2", Title: "Forward One"}},
	}
	seeds := []model.Paper{{OpenAlexID: "W1", Title: "Seed"}}

	merged, err := expandSeeds(context.Background(), src, seeds, 50, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, merged, 1)
}

func TestExpandSeedsSkipsSeedOnResolveFailure(t *testing.T) {
	src := &fakeCitationSource{resolveErr: assert.AnError}
	seeds := []model.Paper{{Title: "Seed", DOI: "10.1/seed"}}

	merged, err := expandSeeds(context.Background(), src, seeds, 50, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, merged)
}
