// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/kevinchung58/LatteReview/internal/review"
)

// Simulated is a deterministic invoker for dry runs and demos. It needs
// no API key and derives its answers from a hash of the record's title,
// so repeated runs over the same input produce identical results.
type Simulated struct{}

// simulatedDecisions is the stance cycle keyed by title hash.
var simulatedDecisions = []string{"Included", "Excluded", "Unsure", "Included"}

// Invoke produces a stable pseudo-evaluation for the request.
func (Simulated) Invoke(_ context.Context, req review.Request) (review.Response, error) {
	h := fnv.New32a()
	h.Write([]byte(req.Title))
	h.Write([]byte(req.Criteria.Backstory))
	sum := h.Sum32()

	decision := simulatedDecisions[sum%uint32(len(simulatedDecisions))]
	score := fmt.Sprintf("%d", sum%5+1)

	// In a debate re-evaluation the simulated agent keeps its original
	// stance, so dry runs stay predictable.
	if req.PeerFeedback != "" {
		return review.Response{
			Decision:  req.PriorDecision,
			Reasoning: "Simulated re-evaluation: standing by the original assessment.",
			Score:     score,
		}, nil
	}

	return review.Response{
		Decision:          decision,
		Reasoning:         fmt.Sprintf("Simulated evaluation of %q.", req.Title),
		Score:             score,
		ExtractedConcepts: simulatedConcepts(req.Title),
	}, nil
}

// simulatedConcepts derives placeholder concepts from the title words.
func simulatedConcepts(title string) []string {
	words := strings.Fields(strings.ToLower(title))
	if len(words) > 3 {
		words = words[:3]
	}
	return words
}
