package model

// Verdict is the normalized outcome of a review. "discard" carries its
// reason in DiscardReason rather than embedded in the verdict string
// itself (spec.md describes final_verdict as discard(<reason>); this
// module keeps the verdict terse and machine-comparable, and moves the
// reason into its own field — see the Derivation decision in SPEC_FULL.md).
type Verdict string

const (
	VerdictInclude    Verdict = "include"
	VerdictExclude    Verdict = "exclude"
	VerdictNeedsReeval Verdict = "needs_reeval"
	VerdictDiscard    Verdict = "discard"
)

// DiscardReason enumerates the hard pre-filter rules that bypass the LLM.
type DiscardReason string

const (
	DiscardMissingMetadata DiscardReason = "missing_metadata"
	DiscardExcludeTitle    DiscardReason = "exclude_title"
	DiscardCutoffDate      DiscardReason = "cutoff_before_date"
	DiscardSurveyFilter    DiscardReason = "survey_filter"
	DiscardNonEnglish      DiscardReason = "non_english"
)

// ReviewerEvaluation is one reviewer's independent score for a paper.
type ReviewerEvaluation struct {
	Reviewer  string `json:"reviewer"`
	Evaluation int   `json:"evaluation"`
	Reasoning string `json:"reasoning"`
}

// Derivation records how FinalVerdict was arrived at: which round ran,
// and the scores that fed the threshold rule. Kept separate from the
// verdict itself so a reader can audit the decision without parsing a
// string.
type Derivation struct {
	SeniorRan   bool `json:"senior_ran"`
	JuniorMean  float64 `json:"junior_mean,omitempty"`
	SeniorScore *int `json:"senior_score,omitempty"`
}

// ReviewResult is one entry of review/latte_review_results.json or a
// round's latte_review_results.json.
type ReviewResult struct {
	Identifier    string               `json:"identifier"`
	Metadata      Paper                `json:"metadata"`
	JuniorEvals   []ReviewerEvaluation `json:"junior_evaluations"`
	SeniorEval    *ReviewerEvaluation  `json:"senior_evaluation,omitempty"`
	FinalVerdict  Verdict              `json:"final_verdict"`
	DiscardReason DiscardReason        `json:"discard_reason,omitempty"`
	Derivation    *Derivation          `json:"derivation,omitempty"`
}

// HardDiscard marks the result as discarded under the given reason,
// bypassing any reviewer evaluation. Per spec this must happen before
// any LLM call is issued for the paper.
func (r *ReviewResult) HardDiscard(reason DiscardReason) {
	r.FinalVerdict = VerdictDiscard
	r.DiscardReason = reason
}

// NeedsSeniorEscalation reports whether the two junior scores trigger
// Round B: a disagreement of 2 or more, or both scoring exactly 3.
func NeedsSeniorEscalation(evalA, evalB int) bool {
	diff := evalA - evalB
	if diff < 0 {
		diff = -diff
	}
	return diff >= 2 || (evalA == 3 && evalB == 3)
}

// DeriveVerdict applies the include/exclude/needs_reeval threshold rule
// to a score, shared by both the senior path (score as-is) and the
// junior-mean path (score rounded).
func DeriveVerdict(score int) Verdict {
	switch {
	case score >= 4:
		return VerdictInclude
	case score <= 2:
		return VerdictExclude
	default:
		return VerdictNeedsReeval
	}
}
