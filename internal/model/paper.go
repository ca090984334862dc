// Package model holds the entities persisted across workspace stages:
// papers, seed selections, criteria documents, keyword payloads, review
// results, the cross-round dedup registry and per-round metadata.
//
// Every type here is a plain, JSON-tagged struct. Titles and abstracts
// recorded on a Paper at ingestion are treated as immutable — callers
// must copy them verbatim into downstream artifacts rather than
// re-deriving or re-normalizing them.
package model

import "time"

// Paper is the central entity: a literature record identified by one or
// more canonical IDs, with provenance tracking which source produced it.
type Paper struct {
	ArxivID         string     `json:"arxiv_id,omitempty"`
	DOI             string     `json:"doi,omitempty"`
	OpenAlexID      string     `json:"openalex_id,omitempty"`
	NormalizedTitle string     `json:"normalized_title"`
	Title           string     `json:"title"`
	Abstract        string     `json:"abstract"`
	PublishedDate   *time.Time `json:"published_date,omitempty"`
	Authors         []string   `json:"authors,omitempty"`
	PDFURL          string     `json:"pdf_url,omitempty"`
	LandingURL      string     `json:"landing_url,omitempty"`
	Source          string     `json:"source"`
	SourceID        string     `json:"source_id"`
}

// CanonicalKeys returns the paper's identifiers in dedup priority order
// (openalex_id > doi > arxiv_id > normalized_title), skipping empty ones.
func (p Paper) CanonicalKeys() []string {
	keys := make([]string, 0, 4)
	for _, k := range []string{p.OpenAlexID, p.DOI, p.ArxivID, p.NormalizedTitle} {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// PrimaryKey returns the single highest-priority non-empty identifier,
// or "" if the paper carries no identifiers at all.
func (p Paper) PrimaryKey() string {
	keys := p.CanonicalKeys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// HasTitleAndAbstract reports whether the paper carries both fields
// non-empty, the hard pre-filter gate used before any LLM call.
func (p Paper) HasTitleAndAbstract() bool {
	return p.Title != "" && p.Abstract != ""
}
