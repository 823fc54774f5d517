package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cadence-sh/cadence/internal/config"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LLMConfig
		want    string
		wantErr bool
	}{
		{"anthropic", config.LLMConfig{Provider: "anthropic", AnthropicKey: "test-key"}, "*llm.Anthropic", false},
		{"anthropic without key", config.LLMConfig{Provider: "anthropic"}, "", true},
		{"ollama", config.LLMConfig{Provider: "ollama"}, "*llm.Ollama", false},
		{"padded provider name", config.LLMConfig{Provider: " ollama "}, "*llm.Ollama", false},
		{"unknown provider", config.LLMConfig{Provider: "gpt"}, "", true},
		{"empty provider", config.LLMConfig{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			if got := fmt.Sprintf("%T", client); got != tt.want {
				t.Errorf("client type = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewClientOllamaDefaults(t *testing.T) {
	client, err := NewClient(config.LLMConfig{Provider: "ollama"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	o := client.(*Ollama)
	if o.baseURL != "http://localhost:11434" {
		t.Errorf("baseURL = %q, want local default", o.baseURL)
	}
	if o.model == "" {
		t.Error("expected a default model")
	}
}

func TestAnthropicComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q, want %q", got, "test-key")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}

		var req struct {
			Model       string  `json:"model"`
			Temperature float64 `json:"temperature"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q, want %q", req.Model, "test-model")
		}
		if req.Temperature != completionTemperature {
			t.Errorf("temperature = %v, want %v", req.Temperature, completionTemperature)
		}

		fmt.Fprint(w, `{"content":[{"text":"[]"}],"usage":{"input_tokens":10,"output_tokens":2}}`)
	}))
	defer srv.Close()

	a := NewAnthropic("test-key", "test-model")
	a.baseURL = srv.URL

	resp, err := a.Complete(context.Background(), "plan my day")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "[]" {
		t.Errorf("content = %q, want %q", resp.Content, "[]")
	}
	if resp.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", resp.Provider)
	}
	if resp.TokensUsed != 12 {
		t.Errorf("tokens = %d, want 12", resp.TokensUsed)
	}
}

func TestAnthropicCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := NewAnthropic("test-key", "test-model")
	a.baseURL = srv.URL

	if _, err := a.Complete(context.Background(), "plan my day"); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestOllamaComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}

		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("expected stream=false")
		}
		if req.Prompt != "plan my day" {
			t.Errorf("prompt = %q, want %q", req.Prompt, "plan my day")
		}

		fmt.Fprint(w, `{"response":"[]"}`)
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "llama3.2")

	resp, err := o.Complete(context.Background(), "plan my day")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "[]" {
		t.Errorf("content = %q, want %q", resp.Content, "[]")
	}
	if resp.Provider != "ollama" {
		t.Errorf("provider = %q, want ollama", resp.Provider)
	}
}

func TestPlanPrompt(t *testing.T) {
	prompt := PlanPrompt("2024-01-15", "- Ship side project", "- [red] goroutines", 6)

	for _, want := range []string{"2024-01-15", "Ship side project", "goroutines", "At most 6 tasks", "JSON array"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestMockClientRecordsPrompts(t *testing.T) {
	mock := &MockClient{Response: &Response{Content: "[]", Provider: "mock"}}

	resp, err := mock.Complete(context.Background(), "first prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "[]" {
		t.Errorf("content = %q, want %q", resp.Content, "[]")
	}
	if len(mock.Prompts) != 1 || mock.Prompts[0] != "first prompt" {
		t.Errorf("prompts = %v, want the one sent prompt", mock.Prompts)
	}
}
