package store

import (
	"time"

	"sattva/internal/schedule"
	"sattva/internal/session"
)

// AddSchedule registers a reminder.
func (s *Store) AddSchedule(sc schedule.Schedule) {
	s.mu.Lock()
	s.schedules = append(s.schedules, sc)
	s.mu.Unlock()
	s.commit()
}

// RemoveSchedule deletes a reminder by id.
func (s *Store) RemoveSchedule(id string) {
	s.mu.Lock()
	out := s.schedules[:0]
	for _, sc := range s.schedules {
		if sc.ID != id {
			out = append(out, sc)
		}
	}
	s.schedules = out
	s.mu.Unlock()
	s.commit()
}

// CompleteSchedule marks a fired schedule done, advancing recurring ones to
// their next future occurrence.
func (s *Store) CompleteSchedule(id string) {
	s.mu.Lock()
	now := s.now()
	for i, sc := range s.schedules {
		if sc.ID == id {
			s.schedules[i] = sc.Complete(now)
			break
		}
	}
	s.mu.Unlock()
	s.commit()
}

// FireDueSchedules is the poller tick: when no session is active and a
// schedule is due, it opens the scheduled-call session and advances the
// schedule. At most one schedule fires per tick.
func (s *Store) FireDueSchedules(now time.Time) {
	s.mu.Lock()
	if s.current != nil || s.navigatorOpen {
		s.mu.Unlock()
		return
	}
	var due *schedule.Schedule
	for i := range s.schedules {
		if s.schedules[i].Due(now) {
			due = &s.schedules[i]
			break
		}
	}
	if due == nil {
		s.mu.Unlock()
		return
	}
	fired := *due
	*due = due.Complete(now)
	s.current = session.NewScheduledCall(fired.ID, fired.Activity)
	s.mu.Unlock()

	s.logger.Info("schedule %q fired (%s)", fired.Activity, fired.ID)
	s.commit()
}
