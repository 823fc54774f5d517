package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/cadence-sh/cadence/internal/schedule"
	"github.com/cadence-sh/cadence/internal/store"
)

// sortDueTopics orders due topics by descending urgency, stably.
func sortDueTopics(due []dueTopic) {
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].urgency > due[j].urgency
	})
}

// fallbackTasks builds the deterministic plan: the most urgent due topics,
// with the most urgent goal's topics surfaced first. Review length scales
// with how far the topic has decayed.
func (p *Planner) fallbackTasks(goals []store.Goal, due []dueTopic, now time.Time) []Task {
	if len(due) == 0 {
		return nil
	}

	ordered := due
	if top := mostUrgentGoal(goals, now); top != nil {
		var lead, rest []dueTopic
		for _, d := range due {
			if d.goal.ID == top.ID {
				lead = append(lead, d)
			} else {
				rest = append(rest, d)
			}
		}
		ordered = append(lead, rest...)
	}

	if len(ordered) > p.MaxTasks {
		ordered = ordered[:p.MaxTasks]
	}

	tasks := make([]Task, 0, len(ordered))
	for _, d := range ordered {
		tasks = append(tasks, Task{
			TopicID:          d.topic.PublicID,
			Topic:            d.topic.Name,
			Goal:             d.goal.Title,
			Action:           fmt.Sprintf("Review %s", d.topic.Name),
			EstimatedMinutes: reviewMinutes(d.level),
		})
	}
	return tasks
}

// mostUrgentGoal picks the top-ranked goal, or nil when there are none.
func mostUrgentGoal(goals []store.Goal, now time.Time) *store.Goal {
	if len(goals) == 0 {
		return nil
	}

	views := make([]schedule.Goal, len(goals))
	byID := make(map[string]store.Goal, len(goals))
	for i, g := range goals {
		views[i] = schedule.Goal{ID: g.PublicID, Deadline: g.DeadlineTime(), Priority: g.Priority}
		byID[g.PublicID] = g
	}

	top := schedule.MostUrgentGoal(views, now)
	if top == nil {
		return nil
	}
	g := byID[top.ID]
	return &g
}

// reviewMinutes sizes a fallback review by decay level: the further gone,
// the longer the session.
func reviewMinutes(level schedule.Level) int {
	switch level {
	case schedule.Red:
		return 30
	case schedule.Orange:
		return 25
	case schedule.Yellow:
		return 20
	default:
		return 15
	}
}
