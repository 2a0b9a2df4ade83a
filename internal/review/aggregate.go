// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kevinchung58/LatteReview/pkg/types"
)

// reasoningSummaryLimit caps the reasoning summary length.
const reasoningSummaryLimit = 200

// Aggregate collapses a record's full outcome log into one FinalResult.
// The final decision, score, and reasoning come from the last round the
// record participated in; the detailed log and extracted concepts span
// the whole run. Records that never reached any agent produce "N/A".
func Aggregate(record types.Record, log *OutcomeLog, workflow types.WorkflowConfig) types.FinalResult {
	result := types.FinalResult{
		RecordID:      record.ID,
		FinalDecision: types.DecisionNA,
	}

	if len(workflow.Rounds) == 0 {
		result.DetailedLog = "no rounds configured"
		return result
	}

	result.DetailedLog = detailedLog(record.ID, log, workflow)
	result.ExtractedConcepts = conceptUnion(log.ForRecord(record.ID))

	last := lastParticipatingRound(record.ID, log, workflow)
	if last < 0 {
		return result
	}

	roundID := types.RoundID(last)
	roundOutcomes := log.ForRecordRound(record.ID, roundID)

	// Decision and reasoning follow the first configured agent of the
	// deciding round; ties among its peers are not averaged.
	firstAgent := workflow.Rounds[last].Agents[0].Name
	for _, o := range roundOutcomes {
		if o.AgentName != firstAgent {
			continue
		}
		result.FinalDecision = o.EffectiveDecision()
		result.ReasoningSummary = truncate(o.Reasoning, reasoningSummaryLimit)
		break
	}

	// The score is the one field averaged across the deciding round's
	// scoring agents. Unparseable values are excluded, not zeroed.
	if mean, ok := meanScore(roundOutcomes); ok {
		rounded := math.Round(mean*10) / 10
		result.FinalScore = &rounded
	}

	return result
}

// lastParticipatingRound returns the index of the last configured round
// holding at least one outcome for the record, or -1.
func lastParticipatingRound(recordID string, log *OutcomeLog, workflow types.WorkflowConfig) int {
	for i := len(workflow.Rounds) - 1; i >= 0; i-- {
		if len(log.ForRecordRound(recordID, types.RoundID(i))) > 0 {
			return i
		}
	}
	return -1
}

// detailedLog renders every outcome the record accumulated, in
// round-then-agent configured order, one "{round}-{agent}: {field}:
// {value}" line per populated field. Rounds the record was filtered out
// of contribute nothing; no placeholder entries are injected.
func detailedLog(recordID string, log *OutcomeLog, workflow types.WorkflowConfig) string {
	var lines []string
	for i, round := range workflow.Rounds {
		roundID := types.RoundID(i)
		outcomes := log.ForRecordRound(recordID, roundID)
		for _, agent := range round.Agents {
			for _, o := range outcomes {
				if o.AgentName != agent.Name {
					continue
				}
				lines = append(lines, outcomeLines(roundID, o)...)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// outcomeLines renders one outcome's populated fields.
func outcomeLines(roundID string, o types.Outcome) []string {
	prefix := fmt.Sprintf("%s-%s", roundID, o.AgentName)
	lines := []string{
		fmt.Sprintf("%s: decision: %s", prefix, o.Decision),
	}
	if o.Score != "" {
		// Rendered verbatim so unparseable scores stay visible.
		lines = append(lines, fmt.Sprintf("%s: score: %s", prefix, o.Score))
	}
	if o.Reasoning != "" {
		lines = append(lines, fmt.Sprintf("%s: reasoning: %s", prefix, o.Reasoning))
	}
	if o.DecisionAfterDebate != "" {
		lines = append(lines, fmt.Sprintf("%s: decision_after_debate: %s", prefix, o.DecisionAfterDebate))
	}
	if o.Rebuttal != "" {
		lines = append(lines, fmt.Sprintf("%s: rebuttal: %s", prefix, o.Rebuttal))
	}
	if len(o.ExtractedConcepts) > 0 {
		lines = append(lines, fmt.Sprintf("%s: extracted_concepts: %s", prefix, strings.Join(o.ExtractedConcepts, ", ")))
	}
	return lines
}

// conceptUnion deduplicates and sorts the concepts across outcomes.
func conceptUnion(outcomes []types.Outcome) []string {
	seen := make(map[string]bool)
	for _, o := range outcomes {
		for _, c := range o.ExtractedConcepts {
			if c != "" {
				seen[c] = true
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	union := make([]string, 0, len(seen))
	for c := range seen {
		union = append(union, c)
	}
	sort.Strings(union)
	return union
}
