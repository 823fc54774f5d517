package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultAnthropicURL = "https://api.anthropic.com/v1/messages"

// Anthropic completes prompts through the Anthropic Messages API. Plan
// prompts ask for a single JSON array, so only the first content block of
// the reply is kept.
type Anthropic struct {
	apiKey  string
	model   string
	baseURL string
	hc      *http.Client
}

// NewAnthropic creates a client for the hosted Anthropic API.
func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultAnthropicURL,
		hc:      &http.Client{Timeout: requestTimeout},
	}
}

// Complete sends the prompt as a single user message.
func (a *Anthropic) Complete(ctx context.Context, prompt string) (*Response, error) {
	payload := map[string]any{
		"model":       a.model,
		"max_tokens":  completionMaxTokens,
		"temperature": completionTemperature,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": "2023-06-01",
	}

	body, err := postJSON(ctx, a.hc, a.baseURL, headers, payload)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	var out struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("anthropic: decode response: %w", err)
	}

	var text string
	if len(out.Content) > 0 {
		text = out.Content[0].Text
	}
	return &Response{
		Content:    text,
		Provider:   "anthropic",
		TokensUsed: out.Usage.InputTokens + out.Usage.OutputTokens,
	}, nil
}
