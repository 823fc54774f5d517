package schedule

import (
	"math"
	"time"
)

// TopicUrgency scores a topic for sort ordering: higher means more urgent.
// The decay level dominates (each level is worth 10), with a small inverse
// mastery boost so that among equally-stale topics the less-practiced one
// surfaces first. The absolute value carries no meaning to callers beyond
// ordering.
func TopicUrgency(t Topic, now time.Time) int {
	level := Decay(t.LastReviewed, t.ReviewCount, now)

	inverseMastery := 5 - t.ReviewCount
	if inverseMastery < 0 {
		inverseMastery = 0
	}

	return int(level)*10 + inverseMastery
}

// GoalUrgency scores a goal in [0,100] from its declared priority and
// deadline proximity. Two additive bands, each bounded at 50:
//
//	priority:  round(priority/5 * 50)
//	deadline:  50 for overdue or due within a week, then 40/30/20/10
//	           for <=14, <=30, <=60, and >60 days out
func GoalUrgency(deadline time.Time, priority int, now time.Time) int {
	priorityComponent := int(math.Round(float64(priority) / 5 * 50))

	days := daysBetween(now, deadline)
	var timeComponent int
	switch {
	case days <= 7:
		timeComponent = 50
	case days <= 14:
		timeComponent = 40
	case days <= 30:
		timeComponent = 30
	case days <= 60:
		timeComponent = 20
	default:
		timeComponent = 10
	}

	score := priorityComponent + timeComponent
	if score > 100 {
		score = 100
	}
	return score
}
