// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kevinchung58/LatteReview/pkg/types"
)

const defaultDebateReasoningLimit = 300

// resolveDebates detects per-record disagreement among a round's
// outcomes and runs the peer-feedback reconciliation: each agent with a
// stance sees the other agents' decisions and (truncated) reasoning and
// may revise its own. Revisions land on the outcome as
// DecisionAfterDebate plus a Rebuttal; the original decision is never
// overwritten.
//
// Only the first round of a workflow reaches this code. Later rounds'
// disagreements are left as-is for disagreement_previous filtering to
// consume.
func resolveDebates(ctx context.Context, invoker Invoker, records []types.Record, agents []types.AgentConfig, outcomes []types.Outcome, cfg types.ReviewConfig, w io.Writer) []types.Outcome {
	byRecord := make(map[string][]int, len(records))
	for i, o := range outcomes {
		byRecord[o.RecordID] = append(byRecord[o.RecordID], i)
	}

	agentByName := make(map[string]types.AgentConfig, len(agents))
	for _, a := range agents {
		agentByName[a.Name] = a
	}

	for _, record := range records {
		idx := byRecord[record.ID]
		if !hasDisagreement(outcomes, idx) {
			continue
		}

		fmt.Fprintf(w, "debate: %s: agents disagree, requesting re-evaluation\n", record.ID)

		for _, i := range idx {
			if outcomes[i].Decision == types.DecisionUnsure {
				continue // no stance to defend
			}
			// Run-level cancellation: stop issuing re-evaluations; the
			// original decisions stand.
			if ctx.Err() != nil {
				return outcomes
			}
			agent, ok := agentByName[outcomes[i].AgentName]
			if !ok {
				continue
			}
			feedback := peerFeedback(outcomes, idx, i, cfg)
			reevaluate(ctx, invoker, record, agent, &outcomes[i], feedback, cfg)
		}
	}

	return outcomes
}

// hasDisagreement reports whether the record's outcomes carry at least
// two non-Unsure decisions that are not all equal.
func hasDisagreement(outcomes []types.Outcome, idx []int) bool {
	stances := make(map[types.Decision]bool)
	var decided int
	for _, i := range idx {
		if d := outcomes[i].Decision; d != types.DecisionUnsure {
			stances[d] = true
			decided++
		}
	}
	return decided >= 2 && len(stances) > 1
}

// peerFeedback summarizes every other agent's stance on the record for
// presentation to the agent at index self.
func peerFeedback(outcomes []types.Outcome, idx []int, self int, cfg types.ReviewConfig) string {
	limit := cfg.DebateReasoningLimit
	if limit <= 0 {
		limit = defaultDebateReasoningLimit
	}

	var b strings.Builder
	b.WriteString("Your fellow reviewers evaluated the same record:\n")
	for _, i := range idx {
		if i == self {
			continue
		}
		o := outcomes[i]
		b.WriteString(fmt.Sprintf("- %s decided %s: %s\n", o.AgentName, o.Decision, truncate(o.Reasoning, limit)))
	}
	return b.String()
}

// reevaluate asks the agent to reconsider its stance given peer
// feedback. A failed or unintelligible re-evaluation defaults the
// post-debate decision to the original stance.
func reevaluate(ctx context.Context, invoker Invoker, record types.Record, agent types.AgentConfig, outcome *types.Outcome, feedback string, cfg types.ReviewConfig) {
	resp, err := invokeOnce(ctx, invoker, Request{
		Title:          record.Title,
		Abstract:       record.Abstract,
		Criteria:       criteriaFor(agent),
		PeerFeedback:   feedback,
		PriorDecision:  string(outcome.Decision),
		PriorReasoning: outcome.Reasoning,
	}, cfg)
	if err != nil {
		outcome.DecisionAfterDebate = outcome.Decision
		outcome.Rebuttal = fmt.Sprintf("re-evaluation failed, keeping original decision: %v", err)
		return
	}

	stance := types.Decision(resp.Decision)
	if !stance.Known() {
		outcome.DecisionAfterDebate = outcome.Decision
		outcome.Rebuttal = fmt.Sprintf("re-evaluation returned unrecognized decision %q, keeping original", resp.Decision)
		return
	}

	outcome.DecisionAfterDebate = stance
	outcome.Rebuttal = resp.Reasoning
}

// truncate shortens s to at most limit runes, marking the cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
