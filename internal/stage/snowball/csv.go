package snowball

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

var paperCSVHeader = []string{"id", "title", "abstract", "doi", "url", "pdf_url", "year", "openalex_id", "arxiv_id"}

// writePapersCSV persists papers as one of a round's audit CSVs
// (seeds_screening_included.csv, snowball_results_raw.csv,
// snowball_results.csv, snowball_for_review.csv — §3.1 all share this
// shape, header per §6). Grounded on the corpus's stdlib encoding/csv
// usage (no third-party CSV library appears in any retrieved go.mod).
func writePapersCSV(path string, papers []model.Paper) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return xerrors.Wrap(err, xerrors.ConfigError, "create round directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return xerrors.Wrap(err, xerrors.ConfigError, "create csv file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(paperCSVHeader); err != nil {
		return xerrors.Wrap(err, xerrors.ConfigError, "write csv header")
	}
	for _, p := range papers {
		year := ""
		if p.PublishedDate != nil {
			year = strconv.Itoa(p.PublishedDate.Year())
		}
		row := []string{p.PrimaryKey(), p.Title, p.Abstract, p.DOI, p.LandingURL, p.PDFURL, year, p.OpenAlexID, p.ArxivID}
		if err := w.Write(row); err != nil {
			return xerrors.Wrap(err, xerrors.ConfigError, "write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return xerrors.Wrap(err, xerrors.ConfigError, "flush csv writer")
	}
	return nil
}

// candidateRecord is candidates_for_review.json's per-paper shape
// (§4.8 step 5): a narrower projection of model.Paper.
type candidateRecord struct {
	Title         string     `json:"title"`
	Abstract      string     `json:"abstract"`
	PublishedDate *time.Time `json:"published_date"`
	DOI           string     `json:"doi"`
	OpenAlexID    string     `json:"openalex_id"`
	ArxivID       string     `json:"arxiv_id"`
}

func toCandidateRecords(papers []model.Paper) []candidateRecord {
	out := make([]candidateRecord, 0, len(papers))
	for _, p := range papers {
		out = append(out, candidateRecord{
			Title:         p.Title,
			Abstract:      p.Abstract,
			PublishedDate: p.PublishedDate,
			DOI:           p.DOI,
			OpenAlexID:    p.OpenAlexID,
			ArxivID:       p.ArxivID,
		})
	}
	return out
}
