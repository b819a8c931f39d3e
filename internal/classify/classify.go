/*
Package classify derives the priority and urgency labels attached to accepted
matches.
*/
package classify

import (
	"time"
)

// Priority buckets a final score into a relevance label.
func Priority(score int) string {
	switch {
	case score >= 8:
		return "very high"
	case score >= 5:
		return "high"
	case score >= 3:
		return "medium"
	default:
		return "low"
	}
}

// Urgency buckets the days remaining until the proposal deadline. A nil input
// means no deadline is known and yields an empty label.
func Urgency(daysRemaining *int) string {
	if daysRemaining == nil {
		return ""
	}
	switch d := *daysRemaining; {
	case d < 0:
		return "closed"
	case d <= 5:
		return "urgent"
	case d <= 10:
		return "attention"
	default:
		return "on schedule"
	}
}

// DaysRemaining computes the floor of whole days between now and the
// deadline. Evaluated at match time, so a later look at the same report may
// disagree; that is accepted behavior.
func DaysRemaining(deadline *time.Time, now time.Time) *int {
	if deadline == nil {
		return nil
	}
	days := int(deadline.Sub(now).Hours() / 24)
	if deadline.Before(now) && deadline.Sub(now).Hours()/24 != float64(days) {
		days-- // floor, not truncate, for deadlines in the past
	}
	return &days
}
