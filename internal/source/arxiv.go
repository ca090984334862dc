package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"time"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/httpx"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/textnorm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// atomFeed, atomEntry mirror just the fields the arXiv Atom API
// response carries that this pipeline needs. Standard-library
// encoding/xml is used here rather than a third-party feed parser: no
// retrieved example repo ships a source-complete Atom/RSS parsing
// library, only bare go.mod manifest citations, which the operating
// instructions treat as dependency grounding only, not usable source.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string         `xml:"id"`
	Title     string         `xml:"title"`
	Summary   string         `xml:"summary"`
	Published string         `xml:"published"`
	Authors   []atomAuthor   `xml:"author"`
	Links     []atomLink     `xml:"link"`
	DOI       string         `xml:"doi"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

var arxivIDRE = regexp.MustCompile(`(\d{4}\.\d{4,5})(v\d+)?`)

// ArxivSource implements MetadataSource against the arXiv Atom API.
type ArxivSource struct {
	client *httpx.Client
}

func NewArxivSource(gate *httpx.Gate) *ArxivSource {
	return &ArxivSource{client: httpx.NewClient(defaultTimeout, 3, gate)}
}

func (s *ArxivSource) Name() string { return "arxiv" }

// Search executes one page of a search_query against the arXiv Atom
// API. Callers paginate by repeated calls incrementing q.Start, per
// §4.2 step 2's "pagination up to max_results."
func (s *ArxivSource) Search(ctx context.Context, q SearchQuery) ([]model.Paper, error) {
	u := fmt.Sprintf(
		"https://export.arxiv.org/api/query?search_query=%s&start=%d&max_results=%d",
		url.QueryEscape(q.Query), q.Start, q.MaxResults,
	)
	body, err := s.client.Get(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, xerrors.Wrap(err, xerrors.ParseError, "unmarshal arxiv atom feed")
	}

	papers := make([]model.Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		papers = append(papers, entryToPaper(e))
	}
	return papers, nil
}

// Get resolves a single paper by its arXiv ID via the id_list parameter.
func (s *ArxivSource) Get(ctx context.Context, id string) (model.Paper, error) {
	u := fmt.Sprintf("https://export.arxiv.org/api/query?id_list=%s", url.QueryEscape(id))
	body, err := s.client.Get(ctx, u, nil)
	if err != nil {
		return model.Paper{}, err
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return model.Paper{}, xerrors.Wrap(err, xerrors.ParseError, "unmarshal arxiv atom feed")
	}
	if len(feed.Entries) == 0 {
		return model.Paper{}, xerrors.Newf(xerrors.ExternalHttpError, "arxiv: no entry for id %s", id)
	}
	return entryToPaper(feed.Entries[0]), nil
}

func entryToPaper(e atomEntry) model.Paper {
	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		authors = append(authors, a.Name)
	}

	var pdfURL, landingURL string
	for _, l := range e.Links {
		switch {
		case l.Type == "application/pdf":
			pdfURL = l.Href
		case l.Rel == "alternate":
			landingURL = l.Href
		}
	}

	var id string
	if m := arxivIDRE.FindStringSubmatch(e.ID); m != nil {
		id = m[1]
	}

	var published *time.Time
	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		published = &t
	}

	return model.Paper{
		ArxivID:         id,
		DOI:             e.DOI,
		NormalizedTitle: textnorm.NormalizedTitle(e.Title),
		Title:           e.Title,
		Abstract:        e.Summary,
		PublishedDate:   published,
		Authors:         authors,
		PDFURL:          pdfURL,
		LandingURL:      landingURL,
		Source:          "arxiv",
		SourceID:        id,
	}
}

// DownloadPDF fetches p's PDF into destDir, naming the file after its
// arXiv ID, and returns the path written. Used by the seed stage's
// top-K download step (§4.2 step 5).
func (s *ArxivSource) DownloadPDF(ctx context.Context, p model.Paper, destDir string) (string, error) {
	if p.PDFURL == "" {
		return "", xerrors.Newf(xerrors.ValidationError, "paper %s has no pdf_url", p.ArxivID)
	}
	name := p.ArxivID
	if name == "" {
		name = p.SourceID
	}
	dest := filepath.Join(destDir, name+".pdf")
	if err := s.client.Download(ctx, p.PDFURL, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// InferArxivID extracts an arXiv ID from a PDF filename via the regex
// (\d{4}\.\d{4,5})(v\d+)? required by §4.4 step 2.
func InferArxivID(filename string) (string, bool) {
	m := arxivIDRE.FindString(filename)
	return m, m != ""
}
