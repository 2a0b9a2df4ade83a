// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent provides reviewing-agent backends for the screening
// pipeline: a Gemini-backed invoker for real runs and a deterministic
// simulated invoker for dry runs.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/kevinchung58/LatteReview/internal/httputil"
	"github.com/kevinchung58/LatteReview/internal/review"
)

// reviewPromptTmpl is the prompt sent to the Gemini API for each record
// evaluation. It instructs the model to answer with a strict JSON object
// so the response can be parsed mechanically.
var reviewPromptTmpl = template.Must(template.New("review").Parse(`{{.Backstory}}

You are screening an academic record for a literature review.

{{if .InclusionCriteria}}Inclusion criteria: {{.InclusionCriteria}}
{{end}}{{if .ExclusionCriteria}}Exclusion criteria: {{.ExclusionCriteria}}
{{end}}
Title: {{.Title}}
Abstract: {{.Abstract}}
{{if .PeerFeedback}}
You previously decided "{{.PriorDecision}}" with this reasoning: {{.PriorReasoning}}

{{.PeerFeedback}}

Reconsider your position in light of your peers' assessments. You may
keep or revise your decision.
{{end}}
Respond with a JSON object and nothing else. Fields:
- "decision": one of "Included", "Excluded", "Unsure"
- "reasoning": a short justification for the decision
- "score": a relevance score from 1 to 5 as a string, e.g. "4"
- "extracted_concepts": an array of key concept strings from the abstract

Example response:
{"decision": "Included", "reasoning": "Matches the inclusion criteria.", "score": "4", "extracted_concepts": ["deep learning", "screening automation"]}
`))

// geminiAPIURL is the Generative Language API base. Package-level var
// for test substitution.
var geminiAPIURL = "https://generativelanguage.googleapis.com/v1beta/models"

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini evaluates records through the Google Generative Language API.
// Safe for concurrent use.
type Gemini struct {
	APIKey     string
	Model      string
	MaxRetries int
	Client     *http.Client
}

// geminiRequest is the request body for the generateContent endpoint.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

// geminiContent is one conversation turn.
type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

// geminiPart is a single text part.
type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the response body from the generateContent endpoint.
type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// agentReply is the JSON object the prompt asks the model to produce.
type agentReply struct {
	Decision          string   `json:"decision"`
	Reasoning         string   `json:"reasoning"`
	Score             string   `json:"score"`
	ExtractedConcepts []string `json:"extracted_concepts"`
}

// Invoke renders the review prompt, calls the Gemini API with retry on
// transient failures, and parses the model's JSON reply.
func (g *Gemini) Invoke(ctx context.Context, req review.Request) (review.Response, error) {
	prompt, err := renderPrompt(req)
	if err != nil {
		return review.Response{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return review.Response{}, fmt.Errorf("marshaling request: %w", err)
	}

	model := g.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	url := fmt.Sprintf("%s/%s:generateContent", geminiAPIURL, model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return review.Response{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.APIKey)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, httpReq, g.MaxRetries)
	if err != nil {
		return review.Response{}, fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return review.Response{}, fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return review.Response{}, fmt.Errorf("decoding Gemini response: %w", err)
	}

	if len(gResp.Candidates) == 0 || len(gResp.Candidates[0].Content.Parts) == 0 {
		return review.Response{}, fmt.Errorf("Gemini API returned no candidates")
	}

	text := gResp.Candidates[0].Content.Parts[0].Text

	var reply agentReply
	if err := json.Unmarshal([]byte(stripFences(text)), &reply); err != nil {
		return review.Response{}, fmt.Errorf("parsing agent reply JSON: %w", err)
	}

	return review.Response{
		Decision:          reply.Decision,
		Reasoning:         reply.Reasoning,
		Score:             reply.Score,
		ExtractedConcepts: reply.ExtractedConcepts,
	}, nil
}

// renderPrompt executes the review prompt template with the request fields.
func renderPrompt(req review.Request) (string, error) {
	data := struct {
		Backstory         string
		InclusionCriteria string
		ExclusionCriteria string
		Title             string
		Abstract          string
		PeerFeedback      string
		PriorDecision     string
		PriorReasoning    string
	}{
		Backstory:         req.Criteria.Backstory,
		InclusionCriteria: req.Criteria.InclusionCriteria,
		ExclusionCriteria: req.Criteria.ExclusionCriteria,
		Title:             req.Title,
		Abstract:          req.Abstract,
		PeerFeedback:      req.PeerFeedback,
		PriorDecision:     req.PriorDecision,
		PriorReasoning:    req.PriorReasoning,
	}

	var buf bytes.Buffer
	if err := reviewPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// stripFences removes a Markdown code fence wrapping, which some models
// add around JSON output despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
