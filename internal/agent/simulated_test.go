// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinchung58/LatteReview/internal/review"
)

func TestSimulatedIsDeterministic(t *testing.T) {
	req := review.Request{
		Title:    "Graph Neural Networks for Drug Discovery",
		Abstract: "A survey of GNN methods.",
		Criteria: review.Criteria{Backstory: "You are a pharmacologist."},
	}

	first, err := Simulated{}.Invoke(context.Background(), req)
	require.NoError(t, err)
	second, err := Simulated{}.Invoke(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, []string{"Included", "Excluded", "Unsure"}, first.Decision)

	score, err := strconv.Atoi(first.Score)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 1)
	assert.LessOrEqual(t, score, 5)
}

func TestSimulatedVariesByAgent(t *testing.T) {
	req := review.Request{Title: "Same Record Title"}

	asOptimist := req
	asOptimist.Criteria.Backstory = "You favor inclusion."
	asSkeptic := req
	asSkeptic.Criteria.Backstory = "You favor exclusion."

	a, err := Simulated{}.Invoke(context.Background(), asOptimist)
	require.NoError(t, err)
	b, err := Simulated{}.Invoke(context.Background(), asSkeptic)
	require.NoError(t, err)

	// Distinct backstories hash to distinct scores or decisions in
	// practice; at minimum reasoning must not depend on the agent.
	assert.Equal(t, a.Reasoning, b.Reasoning)
}

func TestSimulatedDebateKeepsPriorDecision(t *testing.T) {
	req := review.Request{
		Title:         "Edge Cases in Deduplication",
		PeerFeedback:  "- Skeptic decided Excluded: duplicates only",
		PriorDecision: "Included",
	}

	resp, err := Simulated{}.Invoke(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Included", resp.Decision)
	assert.Empty(t, resp.ExtractedConcepts)
}

func TestSimulatedConceptsFromTitle(t *testing.T) {
	resp, err := Simulated{}.Invoke(context.Background(), review.Request{
		Title: "Active Learning Reduces Screening Burden",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"active", "learning", "reduces"}, resp.ExtractedConcepts)
}
