// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kevinchung58/LatteReview/pkg/types"
)

// runRound evaluates every (record, agent) pair of the round with a
// bounded worker pool and returns one outcome per pair, in
// record-then-agent configured order. Invocation failures degrade to
// Unsure outcomes carrying the failure text; they never abort the round
// for other pairs.
//
// Cancellation mid-round stops new invocations from starting but lets
// in-flight ones finish; their outcomes are kept. Pairs that never
// started produce no outcome.
//
// For the first round (index 0) the debate resolver runs before the
// outcomes are returned, so callers always see post-debate stances.
func runRound(ctx context.Context, invoker Invoker, records []types.Record, round types.RoundConfig, roundIndex int, cfg types.ReviewConfig, w io.Writer) []types.Outcome {
	roundID := types.RoundID(roundIndex)
	agents := round.Agents

	// Each worker writes only its own slot, so the slice needs no lock.
	slots := make([]*types.Outcome, len(records)*len(agents))

	g := new(errgroup.Group)
	g.SetLimit(maxConcurrent(cfg))

	for ri := range records {
		for ai := range agents {
			slot := ri*len(agents) + ai
			record, agent := records[ri], agents[ai]
			g.Go(func() error {
				// A cancelled run issues no new invocations; in-flight
				// ones below run to completion on a detached context.
				if ctx.Err() != nil {
					return nil
				}
				o := evaluate(ctx, invoker, record, agent, roundID, cfg)
				slots[slot] = &o
				return nil
			})
		}
	}
	g.Wait()

	outcomes := make([]types.Outcome, 0, len(slots))
	for _, o := range slots {
		if o != nil {
			outcomes = append(outcomes, *o)
		}
	}

	if roundIndex == 0 {
		outcomes = resolveDebates(ctx, invoker, records, agents, outcomes, cfg, w)
	}

	return outcomes
}

// evaluate runs a single agent invocation under the per-invocation
// timeout and converts the response into an outcome.
func evaluate(ctx context.Context, invoker Invoker, record types.Record, agent types.AgentConfig, roundID string, cfg types.ReviewConfig) types.Outcome {
	outcome := types.Outcome{
		RecordID:  record.ID,
		RoundID:   roundID,
		AgentName: agent.Name,
		AgentType: agent.Type,
	}

	resp, err := invokeOnce(ctx, invoker, Request{
		Title:    record.Title,
		Abstract: record.Abstract,
		Criteria: criteriaFor(agent),
	}, cfg)
	if err != nil {
		outcome.Decision = types.DecisionUnsure
		outcome.Reasoning = fmt.Sprintf("agent invocation failed: %v", err)
		return outcome
	}

	decision := types.Decision(resp.Decision)
	if !decision.Known() {
		outcome.Decision = types.DecisionUnsure
		outcome.Reasoning = fmt.Sprintf("agent returned unrecognized decision %q", resp.Decision)
		return outcome
	}

	outcome.Decision = decision
	outcome.Reasoning = resp.Reasoning

	caps := agent.Type.Capabilities()
	if caps.ProducesScore {
		outcome.Score = resp.Score
	}
	if caps.ProducesConcepts && decision == types.DecisionIncluded {
		outcome.ExtractedConcepts = resp.ExtractedConcepts
	}

	return outcome
}

// invokeOnce calls the invoker on a context that survives run-level
// cancellation but is bounded by the invocation timeout.
func invokeOnce(ctx context.Context, invoker Invoker, req Request, cfg types.ReviewConfig) (Response, error) {
	invCtx := context.WithoutCancel(ctx)
	if timeout := invocationTimeout(cfg); timeout > 0 {
		var cancel context.CancelFunc
		invCtx, cancel = context.WithTimeout(invCtx, timeout)
		defer cancel()
	}
	return invoker.Invoke(invCtx, req)
}

// criteriaFor maps an agent's configuration onto the invoker contract.
func criteriaFor(agent types.AgentConfig) Criteria {
	return Criteria{
		Backstory:         agent.Backstory,
		InclusionCriteria: agent.InclusionCriteria,
		ExclusionCriteria: agent.ExclusionCriteria,
	}
}

const (
	defaultMaxConcurrent     = 4
	defaultInvocationTimeout = 60 * time.Second
)

func maxConcurrent(cfg types.ReviewConfig) int {
	if cfg.MaxConcurrent > 0 {
		return cfg.MaxConcurrent
	}
	return defaultMaxConcurrent
}

func invocationTimeout(cfg types.ReviewConfig) time.Duration {
	if cfg.InvocationTimeout > 0 {
		return cfg.InvocationTimeout
	}
	return defaultInvocationTimeout
}
