// Package schedule models proactive reminders and the recurrence math that
// keeps a recurring schedule's time pointing at the next future occurrence.
package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks where a schedule is in its lifecycle.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
)

// Recurrence names how a schedule repeats.
type Recurrence string

const (
	RecurrenceNone   Recurrence = "none"
	RecurrenceDaily  Recurrence = "daily"
	RecurrenceWeekly Recurrence = "weekly"
	RecurrenceCustom Recurrence = "custom"
)

// Schedule is a reminder for a recurring or one-off proactive activity.
// For a recurring schedule, Time always holds the next future occurrence
// once normalized.
type Schedule struct {
	ID         string         `json:"id"`
	Activity   string         `json:"activity"`
	Time       time.Time      `json:"time"`
	Status     Status         `json:"status"`
	Recurrence Recurrence     `json:"recurrence"`
	CustomDays []time.Weekday `json:"customDays,omitempty"` // for RecurrenceCustom
}

// New creates a scheduled reminder.
func New(activity string, at time.Time, recurrence Recurrence, customDays []time.Weekday) Schedule {
	return Schedule{
		ID:         uuid.NewString(),
		Activity:   activity,
		Time:       at,
		Status:     StatusScheduled,
		Recurrence: recurrence,
		CustomDays: customDays,
	}
}

// Due reports whether the schedule should fire at now.
func (s Schedule) Due(now time.Time) bool {
	return s.Status == StatusScheduled && !s.Time.After(now)
}

// Complete marks a fired schedule done and, for recurring schedules, advances
// Time to the next occurrence. If the computed occurrence is still in the
// past (the app was away for several periods), it keeps advancing until the
// time is in the future. Custom-day schedules take part in the catch-up loop
// as well; each step lands on the next configured weekday at the original
// time-of-day.
func (s Schedule) Complete(now time.Time) Schedule {
	out := s
	if s.Recurrence == RecurrenceNone || s.Recurrence == "" {
		out.Status = StatusCompleted
		return out
	}

	next := advance(out.Time, out.Recurrence, out.CustomDays)
	for !next.After(now) {
		next = advance(next, out.Recurrence, out.CustomDays)
	}
	out.Time = next
	out.Status = StatusScheduled
	return out
}

// advance computes the occurrence immediately after t.
func advance(t time.Time, rec Recurrence, customDays []time.Weekday) time.Time {
	switch rec {
	case RecurrenceDaily:
		return t.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		return t.AddDate(0, 0, 7)
	case RecurrenceCustom:
		return nextCustomDay(t, customDays)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// nextCustomDay returns the next configured weekday strictly after t's day,
// wrapping to next week when no configured day remains this week. The
// time-of-day is preserved.
func nextCustomDay(t time.Time, days []time.Weekday) time.Time {
	if len(days) == 0 {
		return t.AddDate(0, 0, 7)
	}
	configured := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		configured[d] = true
	}
	for offset := 1; offset <= 7; offset++ {
		candidate := t.AddDate(0, 0, offset)
		if configured[candidate.Weekday()] {
			return candidate
		}
	}
	return t.AddDate(0, 0, 7)
}
