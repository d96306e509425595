// Package eval scores retrieval results for relevance using an
// OpenRouter-hosted chat model as a strict JSON evaluator.
package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"

	// DefaultModel is used when no evaluator model is configured.
	DefaultModel = "openai/gpt-4o-mini"

	evalMaxTokens = 800
)

const systemPrompt = `You are a strict evaluator for retrieval results.
Given a user query and a list of retrieved snippets, score how well each snippet helps answer the query.
Return ONLY valid JSON (no markdown) with schema:
{ "items": [ { "idx": <int>, "score": <float 0..1>, "rationale": <string> } ] }
Use score ~1.0 for directly answering, ~0.5 for tangentially useful, ~0.0 for irrelevant.`

// Candidate is one retrieved snippet submitted for scoring.
type Candidate struct {
	Idx   int    `json:"idx"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// Item is the evaluator's verdict for one candidate.
type Item struct {
	Idx       int     `json:"idx"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// Report is the full evaluation result.
type Report struct {
	Provider string
	Model    string
	Items    []Item
}

// EvaluateRelevance asks an OpenRouter chat model to score each
// candidate snippet against the query.
func EvaluateRelevance(ctx context.Context, apiKey, model, query string, candidates []Candidate) (Report, error) {
	if strings.TrimSpace(apiKey) == "" {
		return Report{}, fmt.Errorf("OPENROUTER_API_KEY is not set")
	}
	if model == "" {
		model = DefaultModel
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = openRouterBaseURL
	client := openai.NewClientWithConfig(config)

	payload, err := json.Marshal(map[string]any{
		"query":      query,
		"candidates": candidates,
	})
	if err != nil {
		return Report{}, fmt.Errorf("marshal eval request: %w", err)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
		MaxTokens: evalMaxTokens,
	})
	if err != nil {
		return Report{}, fmt.Errorf("openrouter eval request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Report{}, fmt.Errorf("openrouter eval returned no choices")
	}

	items, err := parseEvalContent(resp.Choices[0].Message.Content)
	if err != nil {
		return Report{}, err
	}
	return Report{Provider: "openrouter", Model: model, Items: items}, nil
}

// parseEvalContent parses the evaluator's JSON reply, salvaging the
// object from surrounding prose when the model ignores the
// JSON-only instruction.
func parseEvalContent(content string) ([]Item, error) {
	raw, err := extractJSONObject(strings.TrimSpace(content))
	if err != nil {
		return nil, fmt.Errorf("parse eval response: %w", err)
	}

	var parsed struct {
		Items []Item `json:"items"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse eval response: %w", err)
	}
	if parsed.Items == nil {
		return nil, fmt.Errorf("eval response missing items")
	}

	for _, item := range parsed.Items {
		if item.Score < 0 || item.Score > 1 {
			return nil, fmt.Errorf("eval score %f for idx %d out of range", item.Score, item.Idx)
		}
	}
	return parsed.Items, nil
}

// extractJSONObject returns text when it is already valid JSON, or the
// slice between the first '{' and the last '}' otherwise.
func extractJSONObject(text string) (json.RawMessage, error) {
	if json.Valid([]byte(text)) {
		return json.RawMessage(text), nil
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	candidate := text[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	return json.RawMessage(candidate), nil
}
