// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"github.com/kevinchung58/LatteReview/pkg/types"
)

// selectRecords decides which records are eligible to enter a round,
// given the outcomes of the previous round. Records keep their input
// order. Decisions are read through EffectiveDecision so debate
// revisions are honored.
//
// The carry-forward rule for included_previous/excluded_previous is
// "any agent agrees", not majority: a single favorable reviewer is
// enough to move a record forward.
func selectRecords(records []types.Record, log *OutcomeLog, prevRoundID string, filter *types.FilterConfig) []types.Record {
	if filter == nil || filter.Type == types.FilterAllPrevious {
		return records
	}

	kept := make([]types.Record, 0, len(records))
	for _, r := range records {
		if keepRecord(log.ForRecordRound(r.ID, prevRoundID), filter) {
			kept = append(kept, r)
		}
	}
	return kept
}

// keepRecord applies the filter to one record's previous-round outcomes.
func keepRecord(outcomes []types.Outcome, filter *types.FilterConfig) bool {
	switch filter.Type {
	case types.FilterIncludedPrevious:
		return anyDecision(outcomes, types.DecisionIncluded)

	case types.FilterExcludedPrevious:
		return anyDecision(outcomes, types.DecisionExcluded)

	case types.FilterDisagreementPrevious:
		return decidedStances(outcomes) > 1

	case types.FilterScoreAboveThreshold:
		mean, ok := meanScore(outcomes)
		// Records with no parseable score fail closed.
		return ok && mean >= filter.Threshold

	default:
		return false
	}
}

// anyDecision reports whether any outcome's effective decision matches d.
func anyDecision(outcomes []types.Outcome, d types.Decision) bool {
	for _, o := range outcomes {
		if o.EffectiveDecision() == d {
			return true
		}
	}
	return false
}

// decidedStances counts the distinct non-Unsure effective decisions.
func decidedStances(outcomes []types.Outcome) int {
	stances := make(map[types.Decision]bool)
	for _, o := range outcomes {
		if d := o.EffectiveDecision(); d != types.DecisionUnsure {
			stances[d] = true
		}
	}
	return len(stances)
}

// meanScore averages the parseable ScoringReviewer scores among the
// outcomes. ok is false when none parse.
func meanScore(outcomes []types.Outcome) (float64, bool) {
	var sum float64
	var n int
	for _, o := range outcomes {
		if o.AgentType != types.AgentScoring {
			continue
		}
		if v, ok := o.ParsedScore(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
