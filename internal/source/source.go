// Package source implements the MetadataSource capability against the
// four external bibliographic services §6 names: arXiv Atom API,
// Semantic Scholar Graph v1, DBLP, and OpenAlex Works API. Each adapter
// shares an internal/httpx.Client rate-gated per §5's per-service
// minimum-interval rule.
package source

import (
	"context"
	"time"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
)

// SearchQuery is a boolean query string plus pagination/window
// parameters shared by every source's search entry point.
type SearchQuery struct {
	Query      string
	MaxResults int
	Start      int
}

// MetadataSource is satisfied by every external bibliographic service
// adapter. Search executes a paginated query; Get resolves a single
// paper by one of its canonical identifiers.
type MetadataSource interface {
	Name() string
	Search(ctx context.Context, q SearchQuery) ([]model.Paper, error)
	Get(ctx context.Context, id string) (model.Paper, error)
}

// CitationSource is the subset of MetadataSource OpenAlex additionally
// satisfies for snowball citation expansion (§4.8 step 2).
type CitationSource interface {
	ForwardCitations(ctx context.Context, openAlexID string, maxResults int) ([]model.Paper, error)
	BackwardReferences(ctx context.Context, openAlexID string, maxResults int) ([]model.Paper, error)
	ResolveID(ctx context.Context, doi, title string) (string, error)
}

// defaultTimeout is the per-call metadata timeout (§5: default 30s).
const defaultTimeout = 30 * time.Second
