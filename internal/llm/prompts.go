package llm

import "fmt"

// PlanPrompt generates the prompt for daily plan generation. The goals and
// topics blocks are pre-rendered digests of the user's ranked goals and
// due-for-review topics, including urgency scores and decay levels.
func PlanPrompt(date, goals, topics string, maxTasks int) string {
	return fmt.Sprintf(`You are a study planning assistant. Build a focused task list for %s.

ACTIVE GOALS (most urgent first):
%s

TOPICS DUE FOR REVIEW (most urgent first):
%s

Rules:
- At most %d tasks
- Every task must reference one of the topic ids listed above
- Prioritize red/orange topics and goals with near deadlines
- Keep actions short and concrete (e.g. "Review channel select patterns")
- estimated_minutes should be 10-60
- Return ONLY a JSON array, no other text

Return a JSON array:
[{
  "topic_id": "id from the list above",
  "action": "what to do",
  "estimated_minutes": 25
}]

If nothing is due, return: []`, date, goals, topics, maxTasks)
}
