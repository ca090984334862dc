// Package registry implements the cross-round dedup registry (§4.9): a
// canonical-key map with priority lookup, upsert, and batch filtering,
// plus the criteria-hash guard that re-eligibilizes stale hard_exclude
// entries when the criteria document changes.
//
// No teacher or pack example ships a dedicated registry/index
// abstraction at this granularity; this is a plain map-keyed lookup, so
// it needs no vector store or bitset — grounded on the teacher's own
// preference for small concrete types over generic containers where a
// map suffices (e.g. pkg/sets.HashSet is a bare map[T]struct{}).
package registry

import (
	"slices"
	"sync"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
)

// Registry is the persisted review_registry.json document, held in
// memory with a mutex: upserts within a round must be serialized to
// avoid lost-update races (§5 Ordering guarantees).
type Registry struct {
	mu      sync.Mutex
	entries map[string]model.RegistryEntry
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]model.RegistryEntry)}
}

// Load constructs a registry from a previously persisted entries map,
// e.g. after reading review_registry.json back from disk.
func Load(entries map[string]model.RegistryEntry) *Registry {
	if entries == nil {
		entries = make(map[string]model.RegistryEntry)
	}
	return &Registry{entries: entries}
}

// Snapshot returns a copy of the underlying map suitable for JSON
// persistence.
func (r *Registry) Snapshot() map[string]model.RegistryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]model.RegistryEntry, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

// Lookup walks paper's canonical keys in priority order and returns the
// first matching entry, or ok=false on a miss. A key stored only as an
// alias in an entry's PaperIdentifiers also matches; matchedBy is then
// the entry's primary key.
func (r *Registry) Lookup(paper model.Paper) (entry model.RegistryEntry, matchedBy string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := paper.CanonicalKeys()
	for _, key := range keys {
		if e, found := r.entries[key]; found {
			return e, key, true
		}
	}
	for _, key := range keys {
		for primary, e := range r.entries {
			if slices.Contains(e.PaperIdentifiers, key) {
				return e, primary, true
			}
		}
	}
	return model.RegistryEntry{}, "", false
}

// Upsert inserts or overwrites the entry under paper's primary key, and
// records every known alias key in PaperIdentifiers so a future paper
// arriving under a different canonical key still matches.
func (r *Registry) Upsert(paper model.Paper, status model.RegistryStatus, criteriaHash string, round int) {
	keys := paper.CanonicalKeys()
	if len(keys) == 0 {
		return
	}
	primary := keys[0]

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[primary] = model.RegistryEntry{
		Status:           status,
		CriteriaHash:     criteriaHash,
		Round:            round,
		MatchedBy:        primary,
		PaperIdentifiers: keys,
	}
}

// IsDedupHit reports whether paper should be removed as a duplicate:
// some canonical key matches a registry entry whose status is final
// (include/exclude/hard_exclude) under the current criteria hash.
//
// The criteria-hash guard: an entry with a stale hash only blocks
// dedup if its status is include or exclude (human-equivalent
// decisions persist across criteria changes); a stale hard_exclude
// entry is dedup-inert and the paper re-enters review.
func (r *Registry) IsDedupHit(paper model.Paper, currentCriteriaHash string) (matchedKey string, matchedField string, hit bool) {
	entry, key, ok := r.Lookup(paper)
	if !ok || !entry.Status.IsFinal() {
		return "", "", false
	}
	if entry.CriteriaHash != currentCriteriaHash && entry.Status == model.StatusHardExclude {
		return "", "", false
	}
	return key, fieldName(paper, key), true
}

func fieldName(paper model.Paper, key string) string {
	switch key {
	case paper.OpenAlexID:
		return "openalex_id"
	case paper.DOI:
		return "doi"
	case paper.ArxivID:
		return "arxiv_id"
	default:
		return "normalized_title"
	}
}

// FilterCandidates partitions papers into kept/removed against the
// current registry state and criteria hash, recording a DedupMatch for
// every removal.
func (r *Registry) FilterCandidates(papers []model.Paper, currentCriteriaHash string) (kept []model.Paper, removed []model.Paper, matches []model.DedupMatch) {
	kept = make([]model.Paper, 0, len(papers))
	for _, p := range papers {
		matchedKey, matchedField, hit := r.IsDedupHit(p, currentCriteriaHash)
		if !hit {
			kept = append(kept, p)
			continue
		}
		removed = append(removed, p)
		matches = append(matches, model.DedupMatch{
			CandidateKey: p.PrimaryKey(),
			MatchedKey:   matchedKey,
			MatchedField: matchedField,
		})
	}
	return kept, removed, matches
}
