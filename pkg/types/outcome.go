// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strconv"

// Decision is an agent's stance on one record.
type Decision string

const (
	DecisionIncluded Decision = "Included"
	DecisionExcluded Decision = "Excluded"
	DecisionUnsure   Decision = "Unsure"

	// DecisionNA marks a final result for a record that no agent ever
	// evaluated. It never appears on an individual Outcome.
	DecisionNA Decision = "N/A"
)

// knownDecisions is the set of decisions an agent may return.
var knownDecisions = map[Decision]bool{
	DecisionIncluded: true,
	DecisionExcluded: true,
	DecisionUnsure:   true,
}

// Known reports whether the decision is a valid agent stance.
func (d Decision) Known() bool {
	return knownDecisions[d]
}

// Outcome records one agent's evaluation of one record in one round.
// Outcomes accumulate in an append-only log; they are never overwritten
// or deleted during a run.
type Outcome struct {
	RecordID  string    `json:"record_id" yaml:"record_id"`
	RoundID   string    `json:"round_id" yaml:"round_id"`
	AgentName string    `json:"agent_name" yaml:"agent_name"`
	AgentType AgentType `json:"agent_type" yaml:"agent_type"`

	// Decision is the agent's original stance. An invocation failure is
	// recorded as Unsure with the failure text in Reasoning.
	Decision Decision `json:"decision" yaml:"decision"`

	// Reasoning is the agent's explanation, or the failure description.
	Reasoning string `json:"reasoning" yaml:"reasoning"`

	// Score is the raw score string as returned by the invoker, empty
	// when the agent type produces none. Kept verbatim so unparseable
	// values stay visible in logs instead of being coerced to zero.
	Score string `json:"score,omitempty" yaml:"score,omitempty"`

	// ExtractedConcepts lists concepts an AbstractionReviewer pulled
	// from an included record.
	ExtractedConcepts []string `json:"extracted_concepts,omitempty" yaml:"extracted_concepts,omitempty"`

	// DecisionAfterDebate is the agent's stance after peer-feedback
	// reconciliation. Empty when no debate took place for this outcome.
	DecisionAfterDebate Decision `json:"decision_after_debate,omitempty" yaml:"decision_after_debate,omitempty"`

	// Rebuttal is the agent's response to peer feedback.
	Rebuttal string `json:"rebuttal,omitempty" yaml:"rebuttal,omitempty"`
}

// EffectiveDecision returns the post-debate stance when one exists and
// the original decision otherwise. Filtering and aggregation always go
// through this.
func (o Outcome) EffectiveDecision() Decision {
	if o.DecisionAfterDebate != "" {
		return o.DecisionAfterDebate
	}
	return o.Decision
}

// ParsedScore parses the raw score string. ok is false when the agent
// produced no score or the value is not numeric.
func (o Outcome) ParsedScore() (float64, bool) {
	if o.Score == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(o.Score, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FinalResult is the aggregated per-record summary produced after all
// rounds complete. It is derived state, recomputed on every
// aggregation pass.
type FinalResult struct {
	RecordID string `json:"record_id" yaml:"record_id"`

	// FinalDecision comes from the first configured agent of the last
	// round the record participated in, or "N/A" if it never
	// participated in any round.
	FinalDecision Decision `json:"final_decision" yaml:"final_decision"`

	// FinalScore is the mean of the last participating round's parseable
	// ScoringReviewer scores, rounded to one decimal. Nil when no score
	// parsed.
	FinalScore *float64 `json:"final_score,omitempty" yaml:"final_score,omitempty"`

	// ReasoningSummary is the (truncated) reasoning of the deciding agent.
	ReasoningSummary string `json:"reasoning_summary" yaml:"reasoning_summary"`

	// DetailedLog renders every outcome the record accumulated across
	// the whole run, in round-then-agent order.
	DetailedLog string `json:"detailed_log" yaml:"detailed_log"`

	// ExtractedConcepts is the sorted, deduplicated union of concepts
	// across all the record's outcomes.
	ExtractedConcepts []string `json:"extracted_concepts,omitempty" yaml:"extracted_concepts,omitempty"`
}
