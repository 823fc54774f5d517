package schedule

import (
	"sort"
	"time"
)

// RankGoals returns the goals sorted by descending GoalUrgency. The sort is
// stable: goals with equal scores keep their input order. The input slice
// is not modified.
func RankGoals(goals []Goal, now time.Time) []Goal {
	ranked := append([]Goal(nil), goals...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return GoalUrgency(ranked[i].Deadline, ranked[i].Priority, now) >
			GoalUrgency(ranked[j].Deadline, ranked[j].Priority, now)
	})
	return ranked
}

// DueTopics filters to the topics due for review at the reference instant,
// preserving input order.
func DueTopics(topics []Topic, now time.Time) []Topic {
	var due []Topic
	for _, t := range topics {
		if IsDue(t.LastReviewed, t.ReviewCount, now) {
			due = append(due, t)
		}
	}
	return due
}

// RankTopics returns the topics sorted by descending TopicUrgency, stably.
// The input slice is not modified.
func RankTopics(topics []Topic, now time.Time) []Topic {
	ranked := append([]Topic(nil), topics...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return TopicUrgency(ranked[i], now) > TopicUrgency(ranked[j], now)
	})
	return ranked
}

// MostUrgentGoal returns the highest-scoring goal, or nil when the slice is
// empty. Ties resolve to the earliest goal in input order.
func MostUrgentGoal(goals []Goal, now time.Time) *Goal {
	if len(goals) == 0 {
		return nil
	}
	ranked := RankGoals(goals, now)
	return &ranked[0]
}
