// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinchung58/LatteReview/internal/httputil"
	"github.com/kevinchung58/LatteReview/internal/review"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

// geminiServer returns a test server that answers generateContent calls
// with the given reply text, and points geminiAPIURL at it.
func geminiServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := geminiAPIURL
	geminiAPIURL = ts.URL
	t.Cleanup(func() { geminiAPIURL = old })

	return ts
}

// candidateBody wraps reply text in the generateContent response shape.
func candidateBody(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func sampleRequest() review.Request {
	return review.Request{
		Title:    "Transformer Models for Citation Screening",
		Abstract: "We evaluate transformer models on abstract screening.",
		Criteria: review.Criteria{
			Backstory:         "You are a systematic-review methodologist.",
			InclusionCriteria: "Studies using ML for screening.",
			ExclusionCriteria: "Non-English publications.",
		},
	}
}

func TestGeminiInvokeParsesReply(t *testing.T) {
	var gotPrompt string
	geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotEmpty(t, body.Contents)
		require.NotEmpty(t, body.Contents[0].Parts)
		gotPrompt = body.Contents[0].Parts[0].Text

		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")

		fmt.Fprint(w, candidateBody(`{"decision": "Included", "reasoning": "Relevant.", "score": "4", "extracted_concepts": ["transformers", "screening"]}`))
	})

	g := &Gemini{APIKey: "test-key"}
	resp, err := g.Invoke(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "Included", resp.Decision)
	assert.Equal(t, "Relevant.", resp.Reasoning)
	assert.Equal(t, "4", resp.Score)
	assert.Equal(t, []string{"transformers", "screening"}, resp.ExtractedConcepts)

	assert.Contains(t, gotPrompt, "You are a systematic-review methodologist.")
	assert.Contains(t, gotPrompt, "Inclusion criteria: Studies using ML for screening.")
	assert.Contains(t, gotPrompt, "Title: Transformer Models for Citation Screening")
	assert.NotContains(t, gotPrompt, "Reconsider your position")
}

func TestGeminiInvokeDebatePromptIncludesPeerFeedback(t *testing.T) {
	var gotPrompt string
	geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotPrompt = body.Contents[0].Parts[0].Text
		fmt.Fprint(w, candidateBody(`{"decision": "Excluded", "reasoning": "Persuaded by peers."}`))
	})

	req := sampleRequest()
	req.PeerFeedback = "Your fellow reviewers evaluated the same record:\n- Skeptic decided Excluded: off topic"
	req.PriorDecision = "Included"
	req.PriorReasoning = "Looked relevant at first."

	g := &Gemini{APIKey: "test-key"}
	resp, err := g.Invoke(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Excluded", resp.Decision)
	assert.Contains(t, gotPrompt, `You previously decided "Included"`)
	assert.Contains(t, gotPrompt, "Skeptic decided Excluded")
	assert.Contains(t, gotPrompt, "Reconsider your position")
}

func TestGeminiInvokeStripsCodeFences(t *testing.T) {
	geminiServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fenced := "```json\n{\"decision\": \"Unsure\", \"reasoning\": \"Abstract is vague.\"}\n```"
		fmt.Fprint(w, candidateBody(fenced))
	})

	g := &Gemini{APIKey: "test-key"}
	resp, err := g.Invoke(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "Unsure", resp.Decision)
	assert.Equal(t, "Abstract is vague.", resp.Reasoning)
}

func TestGeminiInvokeRetriesTransientFailure(t *testing.T) {
	var calls int32
	geminiServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, candidateBody(`{"decision": "Included", "reasoning": "Relevant."}`))
	})

	g := &Gemini{APIKey: "test-key"}
	resp, err := g.Invoke(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "Included", resp.Decision)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGeminiInvokeNonJSONReply(t *testing.T) {
	geminiServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, candidateBody("I think this paper should be included."))
	})

	g := &Gemini{APIKey: "test-key"}
	_, err := g.Invoke(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing agent reply")
}

func TestGeminiInvokeAPIError(t *testing.T) {
	geminiServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "API key not valid", http.StatusBadRequest)
	})

	g := &Gemini{APIKey: "bad-key"}
	_, err := g.Invoke(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned 400")
}

func TestGeminiInvokeCustomModel(t *testing.T) {
	geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/gemini-1.5-pro:generateContent"))
		fmt.Fprint(w, candidateBody(`{"decision": "Included", "reasoning": "ok"}`))
	})

	g := &Gemini{APIKey: "test-key", Model: "gemini-1.5-pro"}
	_, err := g.Invoke(context.Background(), sampleRequest())
	require.NoError(t, err)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n{\"a\": 1}\n ", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}
