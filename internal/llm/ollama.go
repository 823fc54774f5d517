package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Ollama completes prompts against a local Ollama server, for running the
// planner fully offline. Streaming is disabled so the whole completion
// arrives as one response.
type Ollama struct {
	baseURL string
	model   string
	hc      *http.Client
}

// NewOllama creates a client for an Ollama server at baseURL.
func NewOllama(baseURL, model string) *Ollama {
	return &Ollama{
		baseURL: baseURL,
		model:   model,
		hc:      &http.Client{Timeout: requestTimeout},
	}
}

// Complete sends the prompt to the generate endpoint.
func (o *Ollama) Complete(ctx context.Context, prompt string) (*Response, error) {
	payload := map[string]any{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": completionTemperature,
			"num_predict": completionMaxTokens,
		},
	}

	body, err := postJSON(ctx, o.hc, o.baseURL+"/api/generate", nil, payload)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}

	return &Response{Content: out.Response, Provider: "ollama"}, nil
}
