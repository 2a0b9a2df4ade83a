// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import "github.com/kevinchung58/LatteReview/pkg/types"

// OutcomeLog is the append-only arena of every outcome produced during a
// run: a flat slice indexed by record id. Round execution collects its
// outcomes privately and merges them here at the round boundary, so no
// two goroutines ever touch the log concurrently.
type OutcomeLog struct {
	outcomes []types.Outcome
	byRecord map[string][]int
}

// NewOutcomeLog returns an empty log.
func NewOutcomeLog() *OutcomeLog {
	return &OutcomeLog{byRecord: make(map[string][]int)}
}

// Append adds outcomes to the log in the given order.
func (l *OutcomeLog) Append(outcomes ...types.Outcome) {
	for _, o := range outcomes {
		l.byRecord[o.RecordID] = append(l.byRecord[o.RecordID], len(l.outcomes))
		l.outcomes = append(l.outcomes, o)
	}
}

// ForRecord returns the record's outcomes in append order.
func (l *OutcomeLog) ForRecord(recordID string) []types.Outcome {
	idx := l.byRecord[recordID]
	if len(idx) == 0 {
		return nil
	}
	out := make([]types.Outcome, len(idx))
	for i, j := range idx {
		out[i] = l.outcomes[j]
	}
	return out
}

// ForRecordRound returns the record's outcomes for one round, in append
// order.
func (l *OutcomeLog) ForRecordRound(recordID, roundID string) []types.Outcome {
	var out []types.Outcome
	for _, j := range l.byRecord[recordID] {
		if l.outcomes[j].RoundID == roundID {
			out = append(out, l.outcomes[j])
		}
	}
	return out
}

// All returns every outcome in append order.
func (l *OutcomeLog) All() []types.Outcome {
	out := make([]types.Outcome, len(l.outcomes))
	copy(out, l.outcomes)
	return out
}

// Len returns the number of logged outcomes.
func (l *OutcomeLog) Len() int {
	return len(l.outcomes)
}
