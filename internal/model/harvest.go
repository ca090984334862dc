package model

// SearchRecord identifies the exact (anchor, category, term) tuple that
// produced a harvested record, and the literal arXiv query string used.
type SearchRecord struct {
	Anchor   string `json:"anchor"`
	Category string `json:"category"`
	Term     string `json:"term"`
	Query    string `json:"query"`
}

// HarvestRecord is one arXiv metadata record surfaced by the Harvest
// Stage, tagged with the query tuple that first surfaced it (§4.5
// output: "each item carries anchor, search_term, search_record,
// metadata").
type HarvestRecord struct {
	Anchor       string       `json:"anchor"`
	SearchTerm   string       `json:"search_term"`
	SearchRecord SearchRecord `json:"search_record"`
	Metadata     Paper        `json:"metadata"`
}

// AnchorCoverage is one (anchor, category) pair's query-plan accounting:
// how many terms were queried under it, how many raw results came back,
// and how many survived the harvest-wide dedup attributed to this pair.
type AnchorCoverage struct {
	Anchor            string `json:"anchor"`
	Category          string `json:"category"`
	TermsQueried      int    `json:"terms_queried"`
	ResultsReturned   int    `json:"results_returned"`
	ResultsAfterDedup int    `json:"results_after_dedup"`
}

// QueryPlan is query_plan.json: the Harvest Stage's per-(anchor,category)
// coverage ledger.
type QueryPlan struct {
	Coverage []AnchorCoverage `json:"coverage"`
}
