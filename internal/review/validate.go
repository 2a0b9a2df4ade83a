// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"fmt"

	"github.com/kevinchung58/LatteReview/pkg/types"
)

// ConfigError reports an invalid workflow or record set. It carries
// enough position information to locate the offending round or agent.
// Configuration errors are fatal: the engine rejects the run before any
// agent invocation happens.
type ConfigError struct {
	// Round is the name of the offending round, empty for workflow-level
	// and record-level problems.
	Round string

	// Agent is the name of the offending agent, empty when the problem
	// is not agent-specific.
	Agent string

	// Reason describes what is wrong.
	Reason string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Round != "" && e.Agent != "":
		return fmt.Sprintf("invalid workflow: round %q, agent %q: %s", e.Round, e.Agent, e.Reason)
	case e.Round != "":
		return fmt.Sprintf("invalid workflow: round %q: %s", e.Round, e.Reason)
	default:
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
}

// ValidateWorkflow checks the workflow shape before any round runs:
// agent types known, names unique, filters legal given the preceding
// round's agent composition. An empty Rounds slice is valid; running it
// produces "N/A" results for every record.
func ValidateWorkflow(cfg types.WorkflowConfig) error {
	roundNames := make(map[string]bool, len(cfg.Rounds))

	for i, round := range cfg.Rounds {
		if round.Name == "" {
			return &ConfigError{Round: types.RoundID(i), Reason: "round name is empty"}
		}
		if roundNames[round.Name] {
			return &ConfigError{Round: round.Name, Reason: "duplicate round name"}
		}
		roundNames[round.Name] = true

		if len(round.Agents) == 0 {
			return &ConfigError{Round: round.Name, Reason: "round has no agents"}
		}

		agentNames := make(map[string]bool, len(round.Agents))
		for _, agent := range round.Agents {
			if agent.Name == "" {
				return &ConfigError{Round: round.Name, Reason: "agent name is empty"}
			}
			if agentNames[agent.Name] {
				return &ConfigError{Round: round.Name, Agent: agent.Name, Reason: "duplicate agent name within round"}
			}
			agentNames[agent.Name] = true

			if !agent.Type.Known() {
				return &ConfigError{Round: round.Name, Agent: agent.Name,
					Reason: fmt.Sprintf("unknown agent type %q", agent.Type)}
			}
		}

		if err := validateFilter(cfg, i); err != nil {
			return err
		}
	}

	return nil
}

// validateFilter checks round i's filter against the preceding round.
func validateFilter(cfg types.WorkflowConfig, i int) error {
	round := cfg.Rounds[i]

	// The first round has no previous outcomes to filter on.
	if i == 0 {
		if round.Filter != nil {
			return &ConfigError{Round: round.Name, Reason: "first round must not have a filter"}
		}
		return nil
	}

	if round.Filter == nil {
		return &ConfigError{Round: round.Name, Reason: "rounds after the first require a filter"}
	}
	if !round.Filter.Type.Known() {
		return &ConfigError{Round: round.Name,
			Reason: fmt.Sprintf("unknown filter type %q", round.Filter.Type)}
	}

	if round.Filter.Type == types.FilterScoreAboveThreshold {
		if !cfg.Rounds[i-1].HasScoringAgent() {
			return &ConfigError{Round: round.Name,
				Reason: fmt.Sprintf("filter %s requires a ScoringReviewer in the preceding round %q",
					types.FilterScoreAboveThreshold, cfg.Rounds[i-1].Name)}
		}
	} else if round.Filter.Threshold != 0 {
		return &ConfigError{Round: round.Name,
			Reason: fmt.Sprintf("threshold is only legal with filter %s", types.FilterScoreAboveThreshold)}
	}

	return nil
}

// ValidateRecords checks that every record carries the fields the
// pipeline depends on: a unique id, a title, and an abstract.
func ValidateRecords(records []types.Record) error {
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if r.ID == "" {
			return &ConfigError{Reason: fmt.Sprintf("record %d has no id", i)}
		}
		if seen[r.ID] {
			return &ConfigError{Reason: fmt.Sprintf("duplicate record id %q", r.ID)}
		}
		seen[r.ID] = true
		if r.Title == "" {
			return &ConfigError{Reason: fmt.Sprintf("record %q has no title", r.ID)}
		}
		if r.Abstract == "" {
			return &ConfigError{Reason: fmt.Sprintf("record %q has no abstract", r.ID)}
		}
	}
	return nil
}
