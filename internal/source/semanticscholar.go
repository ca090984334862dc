package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/httpx"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/textnorm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

type s2Paper struct {
	PaperID      string   `json:"paperId"`
	ExternalIDs  map[string]string `json:"externalIds"`
	Title        string   `json:"title"`
	Abstract     string   `json:"abstract"`
	PublicationDate string `json:"publicationDate"`
	Authors      []s2Author `json:"authors"`
	OpenAccessPDF *struct {
		URL string `json:"url"`
	} `json:"openAccessPdf"`
	URL string `json:"url"`
}

type s2Author struct {
	Name string `json:"name"`
}

type s2SearchResponse struct {
	Data []s2Paper `json:"data"`
}

// SemanticScholarSource implements MetadataSource against the
// Semantic Scholar Graph API v1.
type SemanticScholarSource struct {
	client *httpx.Client
	apiKey string
}

func NewSemanticScholarSource(gate *httpx.Gate, apiKey string) *SemanticScholarSource {
	return &SemanticScholarSource{client: httpx.NewClient(defaultTimeout, 3, gate), apiKey: apiKey}
}

func (s *SemanticScholarSource) Name() string { return "semanticscholar" }

func (s *SemanticScholarSource) headers() map[string]string {
	if s.apiKey == "" {
		return nil
	}
	return map[string]string{"x-api-key": s.apiKey}
}

const s2Fields = "paperId,externalIds,title,abstract,publicationDate,authors,openAccessPdf,url"

func (s *SemanticScholarSource) Search(ctx context.Context, q SearchQuery) ([]model.Paper, error) {
	u := fmt.Sprintf(
		"https://api.semanticscholar.org/graph/v1/paper/search?query=%s&offset=%d&limit=%d&fields=%s",
		url.QueryEscape(q.Query), q.Start, q.MaxResults, s2Fields,
	)
	body, err := s.client.Get(ctx, u, s.headers())
	if err != nil {
		return nil, err
	}

	var resp s2SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, xerrors.Wrap(err, xerrors.ParseError, "unmarshal semantic scholar search response")
	}

	papers := make([]model.Paper, 0, len(resp.Data))
	for _, p := range resp.Data {
		papers = append(papers, s2ToPaper(p))
	}
	return papers, nil
}

func (s *SemanticScholarSource) Get(ctx context.Context, id string) (model.Paper, error) {
	u := fmt.Sprintf("https://api.semanticscholar.org/graph/v1/paper/%s?fields=%s", url.PathEscape(id), s2Fields)
	body, err := s.client.Get(ctx, u, s.headers())
	if err != nil {
		return model.Paper{}, err
	}

	var p s2Paper
	if err := json.Unmarshal(body, &p); err != nil {
		return model.Paper{}, xerrors.Wrap(err, xerrors.ParseError, "unmarshal semantic scholar paper")
	}
	return s2ToPaper(p), nil
}

func s2ToPaper(p s2Paper) model.Paper {
	authors := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		authors = append(authors, a.Name)
	}

	var pdfURL string
	if p.OpenAccessPDF != nil {
		pdfURL = p.OpenAccessPDF.URL
	}

	var published *time.Time
	if t, err := time.Parse("2006-01-02", p.PublicationDate); err == nil {
		published = &t
	}

	return model.Paper{
		DOI:             p.ExternalIDs["DOI"],
		ArxivID:         p.ExternalIDs["ArXiv"],
		NormalizedTitle: textnorm.NormalizedTitle(p.Title),
		Title:           p.Title,
		Abstract:        p.Abstract,
		PublishedDate:   published,
		Authors:         authors,
		PDFURL:          pdfURL,
		LandingURL:      p.URL,
		Source:          "semanticscholar",
		SourceID:        p.PaperID,
	}
}
