// Package anchors derives a topic's anchor-term variant set: the topic
// phrase itself plus its singular/plural counterpart, a speech<->spoken
// vocabulary swap, and a derived acronym. The Seed Stage (§4.2) uses it
// to build the initial arXiv query; the Keywords Stage (§4.4) passes the
// same variants into its generate-search-terms prompt so the terms it
// extracts line up with what the seed query already searched for; the
// Harvest Stage (§4.5) ORs them into each anchor's query clause. One
// derivation shared by all three keeps "anchor" meaning the same thing
// across the whole pipeline.
package anchors

import (
	"strings"
	"unicode"
)

// speechSwaps holds the two directions of the speech<->spoken
// vocabulary swap.
var speechSwaps = map[string]string{
	"speech": "spoken",
	"spoken": "speech",
}

// Variants derives the anchor-variant set for topic: the topic itself,
// its singular/plural counterpart, a speech<->spoken swap if applicable,
// and a derived acronym if the topic has enough capitalized-initial
// words to form one. Deduplicated case-insensitively, order preserved.
func Variants(topic string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, s)
	}

	add(topic)
	add(SingularPlural(topic))
	add(SpeechSpokenSwap(topic))
	if acr := Acronym(topic); acr != "" {
		add(acr)
	}
	return out
}

// SingularPlural toggles the trailing "s" of topic's last word.
func SingularPlural(topic string) string {
	words := strings.Fields(topic)
	if len(words) == 0 {
		return ""
	}
	last := words[len(words)-1]
	lower := strings.ToLower(last)
	switch {
	case strings.HasSuffix(lower, "s") && len(lower) > 1:
		words[len(words)-1] = last[:len(last)-1]
	default:
		words[len(words)-1] = last + "s"
	}
	return strings.Join(words, " ")
}

// SpeechSpokenSwap replaces the first occurrence of "speech" or
// "spoken" (case-insensitively) with its counterpart, returning "" if
// neither appears. A capitalized original yields a capitalized
// replacement.
func SpeechSpokenSwap(topic string) string {
	lower := strings.ToLower(topic)
	best, bestFrom := -1, ""
	for from := range speechSwaps {
		if idx := strings.Index(lower, from); idx >= 0 && (best < 0 || idx < best) {
			best, bestFrom = idx, from
		}
	}
	if best < 0 {
		return ""
	}
	to := speechSwaps[bestFrom]
	if unicode.IsUpper(rune(topic[best])) {
		to = strings.ToUpper(to[:1]) + to[1:]
	}
	return topic[:best] + to + topic[best+len(bestFrom):]
}

// Acronym derives an acronym from topic's capitalized-initial words
// when at least two qualify, e.g. "Large Language Models" -> "LLM".
func Acronym(topic string) string {
	words := strings.Fields(topic)
	var letters []rune
	for _, w := range words {
		r := []rune(w)
		if len(r) == 0 || !unicode.IsUpper(r[0]) {
			continue
		}
		letters = append(letters, unicode.ToUpper(r[0]))
	}
	if len(letters) < 2 {
		return ""
	}
	return string(letters)
}
