package review

import (
	"testing"

	"github.com/kevinchung58/LatteReview/pkg/types"
)

func rec(id string) types.Record {
	return types.Record{ID: id, Title: "title " + id, Abstract: "abstract " + id}
}

func outcome(recordID string, agentType types.AgentType, decision types.Decision) types.Outcome {
	return types.Outcome{
		RecordID:  recordID,
		RoundID:   "A",
		AgentName: "agent",
		AgentType: agentType,
		Decision:  decision,
	}
}

func logOf(outcomes ...types.Outcome) *OutcomeLog {
	l := NewOutcomeLog()
	l.Append(outcomes...)
	return l
}

func recordIDs(records []types.Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

func assertIDs(t *testing.T, got []types.Record, want ...string) {
	t.Helper()
	ids := recordIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("kept %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("kept %v, want %v", ids, want)
		}
	}
}

func TestSelectRecordsAllPrevious(t *testing.T) {
	records := []types.Record{rec("A1"), rec("A2"), rec("A3")}
	log := logOf(outcome("A1", types.AgentTitleAbstract, types.DecisionExcluded))

	got := selectRecords(records, log, "A", &types.FilterConfig{Type: types.FilterAllPrevious})
	assertIDs(t, got, "A1", "A2", "A3")
}

func TestSelectRecordsIncludedPrevious(t *testing.T) {
	records := []types.Record{rec("A1"), rec("A2"), rec("A3")}

	o2 := outcome("A2", types.AgentTitleAbstract, types.DecisionExcluded)
	o2b := outcome("A2", types.AgentTitleAbstract, types.DecisionIncluded)
	o2b.AgentName = "second"

	log := logOf(
		outcome("A1", types.AgentTitleAbstract, types.DecisionExcluded),
		o2, o2b, // one of two reviewers included A2: permissive carry-forward keeps it
		outcome("A3", types.AgentTitleAbstract, types.DecisionUnsure),
	)

	got := selectRecords(records, log, "A", &types.FilterConfig{Type: types.FilterIncludedPrevious})
	assertIDs(t, got, "A2")
}

func TestSelectRecordsIncludedPreviousHonorsDebateRevision(t *testing.T) {
	records := []types.Record{rec("A1")}

	o := outcome("A1", types.AgentTitleAbstract, types.DecisionExcluded)
	o.DecisionAfterDebate = types.DecisionIncluded

	got := selectRecords(records, logOf(o), "A", &types.FilterConfig{Type: types.FilterIncludedPrevious})
	assertIDs(t, got, "A1")
}

func TestSelectRecordsExcludedPrevious(t *testing.T) {
	records := []types.Record{rec("A1"), rec("A2")}
	log := logOf(
		outcome("A1", types.AgentTitleAbstract, types.DecisionIncluded),
		outcome("A2", types.AgentTitleAbstract, types.DecisionExcluded),
	)

	got := selectRecords(records, log, "A", &types.FilterConfig{Type: types.FilterExcludedPrevious})
	assertIDs(t, got, "A2")
}

func TestSelectRecordsDisagreementPrevious(t *testing.T) {
	records := []types.Record{rec("A1"), rec("A2"), rec("A3")}

	split1 := outcome("A1", types.AgentTitleAbstract, types.DecisionIncluded)
	split2 := outcome("A1", types.AgentTitleAbstract, types.DecisionExcluded)
	split2.AgentName = "second"

	agree1 := outcome("A2", types.AgentTitleAbstract, types.DecisionIncluded)
	agree2 := outcome("A2", types.AgentTitleAbstract, types.DecisionIncluded)
	agree2.AgentName = "second"

	// An Unsure stance does not count as disagreement.
	unsure1 := outcome("A3", types.AgentTitleAbstract, types.DecisionIncluded)
	unsure2 := outcome("A3", types.AgentTitleAbstract, types.DecisionUnsure)
	unsure2.AgentName = "second"

	log := logOf(split1, split2, agree1, agree2, unsure1, unsure2)

	got := selectRecords(records, log, "A", &types.FilterConfig{Type: types.FilterDisagreementPrevious})
	assertIDs(t, got, "A1")
}

func TestSelectRecordsScoreAboveThreshold(t *testing.T) {
	records := []types.Record{rec("A1"), rec("A2"), rec("A3"), rec("A4")}

	score := func(id, value string) types.Outcome {
		o := outcome(id, types.AgentScoring, types.DecisionIncluded)
		o.Score = value
		return o
	}
	secondScore := func(id, value string) types.Outcome {
		o := score(id, value)
		o.AgentName = "second"
		return o
	}

	log := logOf(
		score("A1", "4.5"),
		score("A2", "2.0"), secondScore("A2", "4.0"), // mean 3.0, meets threshold
		score("A3", "not-a-number"), // no parseable score: fail closed
		// A4 has no outcomes at all: fail closed
	)

	got := selectRecords(records, log, "A", &types.FilterConfig{
		Type:      types.FilterScoreAboveThreshold,
		Threshold: 3.0,
	})
	assertIDs(t, got, "A1", "A2")
}
