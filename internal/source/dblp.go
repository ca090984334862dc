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

type dblpHit struct {
	Info struct {
		Title   string `json:"title"`
		Venue   string `json:"venue"`
		Year    string `json:"year"`
		DOI     string `json:"doi"`
		URL     string `json:"url"`
		Authors struct {
			Author json.RawMessage `json:"author"`
		} `json:"authors"`
		Key string `json:"key"`
	} `json:"info"`
}

type dblpSearchResponse struct {
	Result struct {
		Hits struct {
			Hit []dblpHit `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

// DBLPSource implements MetadataSource against DBLP's publication
// search JSON endpoint. DBLP carries no abstracts; papers resolved here
// are identified primarily by DOI and normalized title.
type DBLPSource struct {
	client *httpx.Client
}

func NewDBLPSource(gate *httpx.Gate) *DBLPSource {
	return &DBLPSource{client: httpx.NewClient(defaultTimeout, 3, gate)}
}

func (s *DBLPSource) Name() string { return "dblp" }

func (s *DBLPSource) Search(ctx context.Context, q SearchQuery) ([]model.Paper, error) {
	u := fmt.Sprintf(
		"https://dblp.org/search/publ/api?q=%s&format=json&h=%d&f=%d",
		url.QueryEscape(q.Query), q.MaxResults, q.Start,
	)
	body, err := s.client.Get(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	var resp dblpSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, xerrors.Wrap(err, xerrors.ParseError, "unmarshal dblp search response")
	}

	papers := make([]model.Paper, 0, len(resp.Result.Hits.Hit))
	for _, hit := range resp.Result.Hits.Hit {
		papers = append(papers, dblpToPaper(hit))
	}
	return papers, nil
}

// Get resolves a single publication by its DBLP key via the record's
// JSON endpoint (rec/<key>.json).
func (s *DBLPSource) Get(ctx context.Context, key string) (model.Paper, error) {
	u := fmt.Sprintf("https://dblp.org/rec/%s.json", url.PathEscape(key))
	body, err := s.client.Get(ctx, u, nil)
	if err != nil {
		return model.Paper{}, err
	}

	var wrapped struct {
		Result struct {
			Hits struct {
				Hit []dblpHit `json:"hit"`
			} `json:"hits"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return model.Paper{}, xerrors.Wrap(err, xerrors.ParseError, "unmarshal dblp record")
	}
	if len(wrapped.Result.Hits.Hit) == 0 {
		return model.Paper{}, xerrors.Newf(xerrors.ExternalHttpError, "dblp: no record for key %s", key)
	}
	return dblpToPaper(wrapped.Result.Hits.Hit[0]), nil
}

func dblpToPaper(hit dblpHit) model.Paper {
	var published *time.Time
	if hit.Info.Year != "" {
		if t, err := time.Parse("2006", hit.Info.Year); err == nil {
			published = &t
		}
	}

	return model.Paper{
		DOI:             hit.Info.DOI,
		NormalizedTitle: textnorm.NormalizedTitle(hit.Info.Title),
		Title:           hit.Info.Title,
		PublishedDate:   published,
		LandingURL:      hit.Info.URL,
		Source:          "dblp",
		SourceID:        hit.Info.Key,
	}
}
