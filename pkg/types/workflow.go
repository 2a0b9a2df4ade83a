// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AgentType identifies a reviewing agent persona. The three types share
// one invocation contract and differ only in which extra output fields
// they populate; see Capabilities.
type AgentType string

const (
	// AgentTitleAbstract screens a record on its title and abstract and
	// returns a plain include/exclude/unsure decision.
	AgentTitleAbstract AgentType = "TitleAbstractReviewer"

	// AgentScoring additionally returns a numeric relevance score.
	AgentScoring AgentType = "ScoringReviewer"

	// AgentAbstraction additionally returns extracted concept strings
	// when its decision is Included.
	AgentAbstraction AgentType = "AbstractionReviewer"
)

// Capabilities describes which optional outcome fields an agent type
// produces. Adding a new agent type means adding a row here, not a new
// executor branch.
type Capabilities struct {
	ProducesScore    bool
	ProducesConcepts bool
}

// agentCapabilities maps each known agent type to its capabilities.
var agentCapabilities = map[AgentType]Capabilities{
	AgentTitleAbstract: {},
	AgentScoring:       {ProducesScore: true},
	AgentAbstraction:   {ProducesConcepts: true},
}

// Capabilities returns the capability flags for the agent type. Unknown
// types report no capabilities.
func (t AgentType) Capabilities() Capabilities {
	return agentCapabilities[t]
}

// Known reports whether the agent type is one of the supported types.
func (t AgentType) Known() bool {
	_, ok := agentCapabilities[t]
	return ok
}

// AgentConfig configures one reviewing agent within a round. The
// criteria fields are interpreted by the agent invoker, not enforced by
// the engine.
type AgentConfig struct {
	// Name identifies the agent; unique within its round.
	Name string `json:"name" yaml:"name"`

	// Type selects the agent persona.
	Type AgentType `json:"type" yaml:"type"`

	// Backstory is the persona description handed to the invoker.
	Backstory string `json:"backstory,omitempty" yaml:"backstory,omitempty"`

	// InclusionCriteria lists what qualifies a record for inclusion.
	// For AbstractionReviewer agents this doubles as the extraction focus.
	InclusionCriteria string `json:"inclusion_criteria,omitempty" yaml:"inclusion_criteria,omitempty"`

	// ExclusionCriteria lists what disqualifies a record.
	ExclusionCriteria string `json:"exclusion_criteria,omitempty" yaml:"exclusion_criteria,omitempty"`
}

// FilterType selects how a round narrows the working set based on the
// previous round's outcomes.
type FilterType string

const (
	// FilterAllPrevious passes every record through unchanged.
	FilterAllPrevious FilterType = "all_previous"

	// FilterIncludedPrevious keeps records any previous-round agent included.
	FilterIncludedPrevious FilterType = "included_previous"

	// FilterExcludedPrevious keeps records any previous-round agent excluded.
	FilterExcludedPrevious FilterType = "excluded_previous"

	// FilterDisagreementPrevious keeps records whose previous-round
	// non-Unsure decisions were not unanimous.
	FilterDisagreementPrevious FilterType = "disagreement_previous"

	// FilterScoreAboveThreshold keeps records whose mean previous-round
	// score meets the threshold. Legal only when the previous round has
	// at least one ScoringReviewer.
	FilterScoreAboveThreshold FilterType = "score_above_threshold"
)

// knownFilterTypes is the set of accepted FilterType values.
var knownFilterTypes = map[FilterType]bool{
	FilterAllPrevious:          true,
	FilterIncludedPrevious:     true,
	FilterExcludedPrevious:     true,
	FilterDisagreementPrevious: true,
	FilterScoreAboveThreshold:  true,
}

// Known reports whether the filter type is supported.
func (t FilterType) Known() bool {
	return knownFilterTypes[t]
}

// FilterConfig decides which records enter a round.
type FilterConfig struct {
	Type FilterType `json:"type" yaml:"type"`

	// Threshold applies only to score_above_threshold.
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

// RoundConfig configures one stage of the review pipeline.
type RoundConfig struct {
	// Name identifies the round; unique within a workflow and user-editable.
	Name string `json:"name" yaml:"name"`

	// Agents lists the reviewing agents in configured order.
	Agents []AgentConfig `json:"agents" yaml:"agents"`

	// Filter narrows the working set entering this round. Must be nil
	// for the first round and non-nil for every later round.
	Filter *FilterConfig `json:"filter,omitempty" yaml:"filter,omitempty"`
}

// HasScoringAgent reports whether the round contains at least one
// ScoringReviewer.
func (r RoundConfig) HasScoringAgent() bool {
	for _, a := range r.Agents {
		if a.Type == AgentScoring {
			return true
		}
	}
	return false
}

// WorkflowConfig is the ordered sequence of review rounds. It is
// read-only once validated; the engine takes it by value.
type WorkflowConfig struct {
	Rounds []RoundConfig `json:"rounds" yaml:"rounds"`
}

// RoundID returns the letter identifier for round index i ("A", "B", ...).
// Round identifiers appear in outcome logs and result exports.
func RoundID(i int) string {
	return string(rune('A' + i))
}
