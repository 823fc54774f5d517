package llm

import "context"

// MockClient is an in-memory Client for tests. Every prompt is recorded
// so tests can assert on what the planner actually sent.
type MockClient struct {
	Response *Response
	Err      error
	Prompts  []string
}

// Complete records the prompt and returns the configured result.
func (m *MockClient) Complete(_ context.Context, prompt string) (*Response, error) {
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, m.Err
}
