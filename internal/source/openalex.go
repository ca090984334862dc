package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/httpx"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/textnorm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

type oaWork struct {
	ID               string   `json:"id"`
	DOI              string   `json:"doi"`
	Title            string   `json:"title"`
	PublicationDate  string   `json:"publication_date"`
	CitedByCount     int      `json:"cited_by_count"`
	ReferencedWorks  []string `json:"referenced_works"`
	Authorships      []struct {
		Author struct {
			DisplayName string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
	PrimaryLocation *struct {
		PDFURL  string `json:"pdf_url"`
		Landing string `json:"landing_page_url"`
	} `json:"primary_location"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	IDs struct {
		OpenAlex string `json:"openalex"`
		ArXiv    string `json:"arxiv"`
	} `json:"ids"`
}

type oaWorksResponse struct {
	Results []oaWork `json:"results"`
	Meta    struct {
		NextCursor string `json:"next_cursor"`
	} `json:"meta"`
}

// OpenAlexSource implements MetadataSource and CitationSource against
// the OpenAlex Works API, contacted via the polite pool (mailto
// parameter) per §5's "OpenAlex uses polite-pool via contact email."
type OpenAlexSource struct {
	client *httpx.Client
	mailto string
}

func NewOpenAlexSource(gate *httpx.Gate, mailto string) *OpenAlexSource {
	return &OpenAlexSource{client: httpx.NewClient(defaultTimeout, 3, gate), mailto: mailto}
}

func (s *OpenAlexSource) Name() string { return "openalex" }

func (s *OpenAlexSource) mailtoParam() string {
	if s.mailto == "" {
		return ""
	}
	return "&mailto=" + url.QueryEscape(s.mailto)
}

func (s *OpenAlexSource) Search(ctx context.Context, q SearchQuery) ([]model.Paper, error) {
	u := fmt.Sprintf(
		"https://api.openalex.org/works?search=%s&per-page=%d&page=%d%s",
		url.QueryEscape(q.Query), q.MaxResults, q.Start/max1(q.MaxResults)+1, s.mailtoParam(),
	)
	body, err := s.client.Get(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	var resp oaWorksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, xerrors.Wrap(err, xerrors.ParseError, "unmarshal openalex works response")
	}

	papers := make([]model.Paper, 0, len(resp.Results))
	for _, w := range resp.Results {
		papers = append(papers, oaToPaper(w))
	}
	return papers, nil
}

func (s *OpenAlexSource) Get(ctx context.Context, id string) (model.Paper, error) {
	u := fmt.Sprintf("https://api.openalex.org/works/%s?%s", url.PathEscape(id), strings.TrimPrefix(s.mailtoParam(), "&"))
	body, err := s.client.Get(ctx, u, nil)
	if err != nil {
		return model.Paper{}, err
	}

	var w oaWork
	if err := json.Unmarshal(body, &w); err != nil {
		return model.Paper{}, xerrors.Wrap(err, xerrors.ParseError, "unmarshal openalex work")
	}
	return oaToPaper(w), nil
}

// ResolveID looks up a work's OpenAlex ID by DOI first, falling back to
// a title search, per §4.8 step 2's "resolve openalex_id (direct or via
// DOI/title lookup)."
func (s *OpenAlexSource) ResolveID(ctx context.Context, doi, title string) (string, error) {
	if doi != "" {
		u := fmt.Sprintf("https://api.openalex.org/works/doi:%s?%s", url.PathEscape(doi), strings.TrimPrefix(s.mailtoParam(), "&"))
		body, err := s.client.Get(ctx, u, nil)
		if err == nil {
			var w oaWork
			if json.Unmarshal(body, &w) == nil && w.ID != "" {
				return w.ID, nil
			}
		}
	}
	if title == "" {
		return "", xerrors.New(xerrors.ExternalHttpError, "openalex: cannot resolve id without doi or title")
	}

	papers, err := s.Search(ctx, SearchQuery{Query: title, MaxResults: 1})
	if err != nil {
		return "", err
	}
	if len(papers) == 0 || !textnorm.Equal(papers[0].Title, title) {
		return "", xerrors.Newf(xerrors.ExternalHttpError, "openalex: no confident title match for %q", title)
	}
	return papers[0].OpenAlexID, nil
}

// ForwardCitations returns works that cite openAlexID, traversing
// cited_by_count via the cites: filter.
func (s *OpenAlexSource) ForwardCitations(ctx context.Context, openAlexID string, maxResults int) ([]model.Paper, error) {
	u := fmt.Sprintf("https://api.openalex.org/works?filter=cites:%s&per-page=%d%s", url.QueryEscape(openAlexID), maxResults, s.mailtoParam())
	return s.fetchWorksList(ctx, u)
}

// BackwardReferences returns the works openAlexID itself references.
func (s *OpenAlexSource) BackwardReferences(ctx context.Context, openAlexID string, maxResults int) ([]model.Paper, error) {
	work, err := s.Get(ctx, openAlexID)
	if err != nil {
		return nil, err
	}
	_ = work
	u := fmt.Sprintf("https://api.openalex.org/works/%s?select=referenced_works%s", url.PathEscape(openAlexID), s.mailtoParam())
	body, err := s.client.Get(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	var w oaWork
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, xerrors.Wrap(err, xerrors.ParseError, "unmarshal openalex referenced_works")
	}

	refs := w.ReferencedWorks
	if len(refs) > maxResults {
		refs = refs[:maxResults]
	}

	papers := make([]model.Paper, 0, len(refs))
	for _, ref := range refs {
		p, err := s.Get(ctx, ref)
		if err != nil {
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}

func (s *OpenAlexSource) fetchWorksList(ctx context.Context, u string) ([]model.Paper, error) {
	body, err := s.client.Get(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	var resp oaWorksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, xerrors.Wrap(err, xerrors.ParseError, "unmarshal openalex works list")
	}
	papers := make([]model.Paper, 0, len(resp.Results))
	for _, w := range resp.Results {
		papers = append(papers, oaToPaper(w))
	}
	return papers, nil
}

func oaToPaper(w oaWork) model.Paper {
	authors := make([]string, 0, len(w.Authorships))
	for _, a := range w.Authorships {
		authors = append(authors, a.Author.DisplayName)
	}

	var pdfURL, landingURL string
	if w.PrimaryLocation != nil {
		pdfURL = w.PrimaryLocation.PDFURL
		landingURL = w.PrimaryLocation.Landing
	}

	var published *time.Time
	if t, err := time.Parse("2006-01-02", w.PublicationDate); err == nil {
		published = &t
	}

	return model.Paper{
		ArxivID:         w.IDs.ArXiv,
		DOI:             strings.TrimPrefix(w.DOI, "https://doi.org/"),
		OpenAlexID:      w.ID,
		NormalizedTitle: textnorm.NormalizedTitle(w.Title),
		Title:           w.Title,
		Abstract:        reconstructAbstract(w.AbstractInvertedIndex),
		PublishedDate:   published,
		Authors:         authors,
		PDFURL:          pdfURL,
		LandingURL:      landingURL,
		Source:          "openalex",
		SourceID:        w.ID,
	}
}

// reconstructAbstract rebuilds OpenAlex's inverted-index abstract
// representation (word -> positions) back into plain text.
func reconstructAbstract(index map[string][]int) string {
	if len(index) == 0 {
		return ""
	}
	maxPos := 0
	for _, positions := range index {
		for _, p := range positions {
			if p > maxPos {
				maxPos = p
			}
		}
	}
	words := make([]string, maxPos+1)
	for word, positions := range index {
		for _, p := range positions {
			words[p] = word
		}
	}
	return strings.Join(words, " ")
}

func max1(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
