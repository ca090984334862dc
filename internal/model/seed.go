package model

import "time"

// SeedRow is one candidate row in the ordered seed selection list.
type SeedRow struct {
	ArxivID         string     `json:"arxiv_id"`
	Title           string     `json:"title"`
	PublishedDate   *time.Time `json:"published_date,omitempty"`
	Filtered        bool       `json:"filtered"`
	Selected        bool       `json:"selected"`
	CutoffCandidate bool       `json:"cutoff_candidate,omitempty"`
}

// SeedSelection is the persisted seed/queries/seed_selection.json document.
//
// Invariant: a paper whose normalized title exactly matches the topic
// (the "same-name rule") is always recorded as CutoffCandidate and
// excluded from Rows; if it carries a PublishedDate, CutoffDate is set
// to one day before it.
type SeedSelection struct {
	RecordsTotal        int        `json:"records_total"`
	RecordsAfterFilter  int        `json:"records_after_filter"`
	CutoffReason        string     `json:"cutoff_reason,omitempty"`
	CutoffCandidate     *SeedRow   `json:"cutoff_candidate,omitempty"`
	CutoffDate          *time.Time `json:"cutoff_date,omitempty"`
	SelectedQueries     []string   `json:"selected_queries"`
	Rows                []SeedRow  `json:"rows"`
}

// ApplyCutoffCandidate records candidate as the cutoff namesake paper and
// derives CutoffDate from its published date when present, per the
// same-name rule.
func (s *SeedSelection) ApplyCutoffCandidate(candidate SeedRow) {
	candidate.CutoffCandidate = true
	s.CutoffCandidate = &candidate
	if candidate.PublishedDate != nil {
		d := candidate.PublishedDate.AddDate(0, 0, -1)
		s.CutoffDate = &d
	}
}

// SeedRewriteAttempt is one entry in the SeedRewriteLoop's accumulated
// history, carried forward into every subsequent prompt so the model
// does not repeat phrases that already yielded zero candidates.
type SeedRewriteAttempt struct {
	Attempt     int      `json:"attempt"`
	Phrases     []string `json:"phrases"`
	ResultCount int      `json:"result_count"`
}

// SeedRewriteResult is the persisted seed/queries/seed_rewrite.json document.
type SeedRewriteResult struct {
	Attempt         int                  `json:"attempt"`
	SelectedQueries []string             `json:"selected_queries"`
	History         []SeedRewriteAttempt `json:"history"`
	Exhausted       bool                 `json:"exhausted"`
}

// DownloadOutcome is one PDF download attempt's result.
type DownloadOutcome struct {
	ArxivID   string `json:"arxiv_id"`
	Path      string `json:"path,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
	Error     string `json:"error,omitempty"`
}

// DownloadResults is the persisted seed/queries/download_results.json
// document: one outcome per top-K selected paper.
type DownloadResults struct {
	Attempted int               `json:"attempted"`
	Succeeded int               `json:"succeeded"`
	Results   []DownloadOutcome `json:"results"`
}
