// Package schedule is the decay and urgency engine behind cadence.
//
// Everything in this package is a pure function of its inputs. Time-relative
// computations take an explicit reference clock (`now`) so that a whole
// response, or a whole generated plan, is evaluated at a single instant
// and results are reproducible in tests. Nothing here reads the system
// clock, touches the database, or keeps state.
//
// Spaced repetition: the review interval grows with the topic's review
// count (1, 3, 7, 14, 30 days). A topic's decay level is judged by elapsed
// time relative to its own interval, so a topic on a 30-day cadence and one
// on a 1-day cadence are compared by relative staleness, not raw days.
package schedule

import "time"

// Level classifies how stale a topic's knowledge is presumed to be.
// Ordering matters: higher levels are more urgent.
type Level int

const (
	Green  Level = iota // well within schedule
	Yellow              // approaching due
	Orange              // overdue, moderate
	Red                 // overdue urgent, or never reviewed
)

// String returns the lowercase level name used in API responses.
func (l Level) String() string {
	switch l {
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Orange:
		return "orange"
	case Red:
		return "red"
	default:
		return "unknown"
	}
}

// Topic is the read-only view of a topic's review history.
// A nil LastReviewed means the topic has never been studied.
type Topic struct {
	ID           string
	LastReviewed *time.Time
	ReviewCount  int
}

// Goal is the read-only view of a goal's scheduling metadata.
// Priority is in [1,5]; the deadline may be in the past.
type Goal struct {
	ID       string
	Deadline time.Time
	Priority int
}

// intervals is the spaced-repetition step table, indexed by review count.
// Review counts past the end of the table stay at the final interval.
var intervals = [...]int{1, 3, 7, 14, 30}

// Interval returns the review interval in days for a topic that has been
// reviewed reviewCount times. Callers guarantee reviewCount >= 0.
func Interval(reviewCount int) int {
	if reviewCount >= len(intervals) {
		return intervals[len(intervals)-1]
	}
	return intervals[reviewCount]
}
