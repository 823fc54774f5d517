package schedule

import (
	"math"
	"time"
)

// daysBetween returns the number of whole days from one instant to another,
// rounding toward negative infinity so a deadline twelve hours ago counts
// as overdue rather than "day zero".
func daysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

// Decay classifies a topic's staleness at the reference instant.
//
// A topic that has never been reviewed is Red unconditionally. Otherwise
// the elapsed whole days since the last review are compared against the
// topic's own interval:
//
//	ratio < 0.5   → Green
//	[0.5, 1.0)    → Yellow
//	[1.0, 1.5)    → Orange
//	>= 1.5        → Red
//
// Lower bounds are inclusive: a topic exactly at its interval is Orange.
func Decay(lastReviewed *time.Time, reviewCount int, now time.Time) Level {
	if lastReviewed == nil {
		return Red
	}

	days := daysBetween(*lastReviewed, now)
	ratio := float64(days) / float64(Interval(reviewCount))

	switch {
	case ratio < 0.5:
		return Green
	case ratio < 1.0:
		return Yellow
	case ratio < 1.5:
		return Orange
	default:
		return Red
	}
}

// NextReview returns the instant the topic is next scheduled for review:
// the last review plus the topic's interval. Calendar-day arithmetic is
// done in UTC so DST transitions never shift the day count. A topic that
// has never been reviewed has no next review (nil); it is simply always
// due.
func NextReview(lastReviewed *time.Time, reviewCount int) *time.Time {
	if lastReviewed == nil {
		return nil
	}
	next := lastReviewed.UTC().AddDate(0, 0, Interval(reviewCount))
	return &next
}

// IsDue reports whether the topic should be reviewed at the reference
// instant. Never-reviewed topics are always due; otherwise a topic is due
// once the reference clock reaches its NextReview.
func IsDue(lastReviewed *time.Time, reviewCount int, now time.Time) bool {
	next := NextReview(lastReviewed, reviewCount)
	if next == nil {
		return true
	}
	return !now.Before(*next)
}
