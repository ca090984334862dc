package snowball

import (
	"context"

	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/obslog"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/source"
	"github.com/Sologa/AUTOSR-SDSE-sub001/pkg/sets"
)

// expandSeeds resolves each seed's openalex_id (directly, or via
// DOI/title lookup) and traverses both its forward citations and
// backward references, merging the results into one deduplicated slice
// keyed by model.Paper.CanonicalKeys() (§4.8 step 2).
func expandSeeds(ctx context.Context, citation source.CitationSource, seeds []model.Paper, maxPerSeed int, log *zap.Logger) ([]model.Paper, error) {
	seen := sets.NewHashSet[string]()
	var merged []model.Paper

	add := func(p model.Paper) {
		keys := p.CanonicalKeys()
		if len(keys) == 0 {
			return
		}
		if seen.ContainsAny(keys...) {
			return
		}
		seen.AddAll(keys...)
		merged = append(merged, p)
	}

	for _, seed := range seeds {
		openAlexID := seed.OpenAlexID
		if openAlexID == "" {
			id, err := citation.ResolveID(ctx, seed.DOI, seed.Title)
			if err != nil {
				obslog.WithError(log, "snowball: could not resolve openalex id for seed", err,
					obslog.NewFields().Paper(seed.PrimaryKey()))
				continue
			}
			openAlexID = id
		}

		forward, err := citation.ForwardCitations(ctx, openAlexID, maxPerSeed)
		if err != nil {
			obslog.WithError(log, "snowball: forward citation lookup failed", err,
				obslog.NewFields().Paper(seed.PrimaryKey()))
		}
		for _, p := range forward {
			add(p)
		}

		backward, err := citation.BackwardReferences(ctx, openAlexID, maxPerSeed)
		if err != nil {
			obslog.WithError(log, "snowball: backward reference lookup failed", err,
				obslog.NewFields().Paper(seed.PrimaryKey()))
		}
		for _, p := range backward {
			add(p)
		}
	}

	return merged, nil
}
