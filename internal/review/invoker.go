// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review implements the multi-round screening pipeline: workflow
// validation, inter-round record filtering, concurrent round execution
// with peer-feedback debate, and final-result aggregation.
package review

import "context"

// Criteria carries an agent's persona and screening criteria to the
// invoker. The engine passes these through verbatim; how they shape the
// model prompt is the invoker's business.
type Criteria struct {
	Backstory         string
	InclusionCriteria string
	ExclusionCriteria string
}

// Request is one evaluation request for one record.
type Request struct {
	// Title and Abstract are the record's text fields under review.
	Title    string
	Abstract string

	// Criteria is the requesting agent's configuration.
	Criteria Criteria

	// PeerFeedback, when non-empty, turns the request into a debate
	// re-evaluation: a summary of the other agents' stances on the same
	// record, alongside the agent's own prior position.
	PeerFeedback   string
	PriorDecision  string
	PriorReasoning string
}

// Response is the invoker's answer for one request.
type Response struct {
	// Decision is the agent's stance: Included, Excluded, or Unsure.
	Decision string

	// Reasoning explains the decision. In a debate re-evaluation this is
	// the agent's rebuttal.
	Reasoning string

	// Score is the raw score string for scoring agents, empty otherwise.
	Score string

	// ExtractedConcepts lists concept strings for abstraction agents.
	ExtractedConcepts []string
}

// Invoker abstracts the reviewing agent so tests can supply a mock and
// deployments can pick a backend. Implementations must be safe for
// concurrent use; the executor issues many invocations in parallel.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (Response, error)
}
