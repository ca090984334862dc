package model

import "time"

// ReviewOutcome tallies the final_verdict distribution for a round.
type ReviewOutcome struct {
	Include   int `json:"include"`
	Exclude   int `json:"exclude"`
	Discard   int `json:"discard"`
	NeedsEval int `json:"needs_eval"`
}

// RoundMeta is the persisted snowball_rounds/round_NN/round_meta.json
// document summarizing one snowball round.
type RoundMeta struct {
	RoundIndex     int           `json:"round_index"`
	SeedCount      int           `json:"seed_count"`
	RawCount       int           `json:"raw_count"`
	FilteredCount  int           `json:"filtered_count"`
	DedupRemoved   int           `json:"dedup_removed"`
	ForReviewCount int           `json:"for_review_count"`
	ReviewOutcome  ReviewOutcome `json:"review_outcome"`
	StartedAt      time.Time     `json:"started_at"`
	FinishedAt     time.Time     `json:"finished_at"`
	CriteriaHash   string        `json:"criteria_hash"`
}

// DedupMatch is one entry in a round's dedup_report.json: which key on
// a discarded candidate matched an existing registry entry.
type DedupMatch struct {
	CandidateKey string `json:"candidate_key"`
	MatchedKey   string `json:"matched_key"`
	MatchedField string `json:"matched_field"`
}
