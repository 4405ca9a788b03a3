package store

import (
	"encoding/json"
	"fmt"
	"time"

	"sattva/internal/activity"
	"sattva/internal/coherence"
)

// LogActivity runs a completed interaction through the orchestrator, records
// the immutable log entry with a post-activity vector snapshot, and updates
// points, streak, and any matching active quest. Synchronous; the caller
// sees the updated state as soon as this returns.
func (s *Store) LogActivity(draft activity.Draft) activity.Entry {
	s.mu.Lock()
	now := s.now()
	res := s.orch.Apply(draft, s.vector)
	s.vector = res.Vector

	entry := activity.Entry{
		ID:             activity.NewID(now),
		Timestamp:      now,
		MentorID:       draft.MentorID,
		VectorSnapshot: res.Vector.Clone(),
		Kind:           draft.Kind,
		Transcript:     draft.Transcript,
		ToolID:         draft.ToolID,
		ToolResult:     draft.ToolResult,
	}

	s.log = append([]activity.Entry{entry}, s.log...)
	if len(s.log) > maxLogEntries {
		s.log = s.log[:maxLogEntries]
	}

	s.points += res.Points
	s.updateStreakLocked(now)
	s.lastActivity = now
	s.recompute()

	questDone := s.completeMatchingQuestLocked(draft, now)
	s.mu.Unlock()

	if questDone != "" {
		s.toasts.Success(fmt.Sprintf("Quest complete: %s", questDone))
	}
	s.commit()
	return entry
}

// updateStreakLocked advances the daily streak: a first-ever activity or a
// gap of more than two days resets to 1, a different day within two days of
// the last increments, and repeat activity on the same day leaves it alone.
func (s *Store) updateStreakLocked(now time.Time) {
	if s.lastActivity.IsZero() {
		s.streak = 1
		return
	}
	gap := calendarDaysBetween(s.lastActivity, now)
	switch {
	case gap == 0:
		// already counted today
	case gap <= 2:
		s.streak++
	default:
		s.streak = 1
	}
}

// calendarDaysBetween counts whole calendar days from from's date to to's
// date. Dates are re-anchored in UTC so the count is exact even when a local
// day is 23 or 25 hours long around a DST shift.
func calendarDaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

// completeMatchingQuestLocked finishes the active quest when the logged tool
// matches its target. Returns the completed quest's description, or "".
func (s *Store) completeMatchingQuestLocked(draft activity.Draft, now time.Time) string {
	if s.activeQuest == nil || draft.Kind != activity.KindToolUsage || draft.ToolID != s.activeQuest.ToolID {
		return ""
	}
	q := *s.activeQuest
	q.CompletedAt = now
	s.completedQuests = append(s.completedQuests, q)
	s.activeQuest = nil
	return q.Description
}

// ApplyVectorAnalysis replaces the vector with the result of an external
// deep-analysis pass (the one mutation path that bypasses the orchestrator).
// The incoming vector is clamped before use.
func (s *Store) ApplyVectorAnalysis(v coherence.Vector) {
	s.mu.Lock()
	s.vector = v.Normalize()
	s.recompute()
	s.mu.Unlock()
	s.commit()
}

// SetToolState stores a tool's opaque payload.
func (s *Store) SetToolState(toolID string, data json.RawMessage) {
	s.mu.Lock()
	ts := s.toolStates[toolID]
	ts.Data = data
	s.toolStates[toolID] = ts
	s.mu.Unlock()
	s.commit()
}

// AppendToolHistory prepends an item to a tool's history list.
func (s *Store) AppendToolHistory(toolID string, item json.RawMessage) {
	s.mu.Lock()
	ts := s.toolStates[toolID]
	ts.History = append([]json.RawMessage{item}, ts.History...)
	s.toolStates[toolID] = ts
	s.mu.Unlock()
	s.commit()
}
