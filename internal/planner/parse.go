package planner

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Task content limits.
const (
	maxActionChars = 200
	minTaskMinutes = 10
	maxTaskMinutes = 60
	defaultMinutes = 25
)

// rawTask is the JSON structure the plan LLM is asked to return.
type rawTask struct {
	TopicID          string `json:"topic_id"`
	Action           string `json:"action"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// parsePlanResponse extracts a JSON array of tasks from the LLM response.
// The response might contain markdown code fences or other wrapper text.
func parsePlanResponse(content string) ([]rawTask, error) {
	content = strings.TrimSpace(content)

	// Strip markdown code fences if present
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		// Remove first and last lines (```json and ```)
		if len(lines) > 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	content = strings.TrimSpace(content)

	// Find the JSON array
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	jsonStr := content[start : end+1]

	var tasks []rawTask
	if err := json.Unmarshal([]byte(jsonStr), &tasks); err != nil {
		return nil, fmt.Errorf("unmarshal tasks: %w", err)
	}

	return tasks, nil
}

// validateTask checks a raw task against the day's due topics and returns
// the cleaned-up plan task. Unknown topic references and empty actions are
// rejected; out-of-range minutes are clamped rather than rejected.
func validateTask(r rawTask, due map[string]dueTopic) (Task, error) {
	d, ok := due[strings.TrimSpace(r.TopicID)]
	if !ok {
		return Task{}, fmt.Errorf("unknown topic id %q", r.TopicID)
	}

	action := truncateAction(strings.TrimSpace(r.Action))
	if action == "" {
		return Task{}, fmt.Errorf("empty action")
	}

	minutes := r.EstimatedMinutes
	switch {
	case minutes <= 0:
		minutes = defaultMinutes
	case minutes < minTaskMinutes:
		minutes = minTaskMinutes
	case minutes > maxTaskMinutes:
		minutes = maxTaskMinutes
	}

	return Task{
		TopicID:          d.topic.PublicID,
		Topic:            d.topic.Name,
		Goal:             d.goal.Title,
		Action:           action,
		EstimatedMinutes: minutes,
	}, nil
}

// truncateAction caps an action at maxActionChars bytes without splitting a
// multi-byte rune, then backs up to the last word boundary when one is
// reasonably close so the action does not end mid-word.
func truncateAction(s string) string {
	if len(s) <= maxActionChars {
		return s
	}

	cut := maxActionChars
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	truncated := s[:cut]
	if idx := strings.LastIndexFunc(truncated, unicode.IsSpace); idx > cut/2 {
		truncated = truncated[:idx]
	}
	return strings.TrimSpace(truncated)
}
