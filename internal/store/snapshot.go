package store

import (
	"time"

	"sattva/internal/activity"
	"sattva/internal/coherence"
	"sattva/internal/mentor"
	"sattva/internal/persistence"
	"sattva/internal/quest"
	"sattva/internal/schedule"
	"sattva/internal/session"
	"sattva/internal/tour"
)

// Snapshot is the read model handed to subscribers and query callers. It is
// a value copy; mutating it does not touch the store.
type Snapshot struct {
	Vector         coherence.Vector      `json:"coherenceVector"`
	Score          int                   `json:"score"`
	Recommendation mentor.Recommendation `json:"recommendation"`

	ChatHistories         map[mentor.ID][]activity.Message `json:"chatHistories"`
	ToolStates            map[string]persistence.ToolState `json:"toolStates"`
	Schedules             []schedule.Schedule              `json:"schedules"`
	CompletedTours        []string                         `json:"completedTours"`
	FontSize              string                           `json:"fontSize"`
	ActivityLog           []activity.Entry                 `json:"activityLog"`
	IsListeningModeActive bool                             `json:"isListeningModeActive"`
	CoherencePoints       int                              `json:"coherencePoints"`
	CoherenceStreak       int                              `json:"coherenceStreak"`
	LastActivityTimestamp time.Time                        `json:"lastActivityTimestamp"`
	ActiveQuest           *quest.Quest                     `json:"activeQuest,omitempty"`
	CompletedQuests       []quest.Quest                    `json:"completedQuests"`

	SessionActive    bool            `json:"sessionActive"`
	SessionVariant   session.Variant `json:"sessionVariant,omitempty"`
	NavigatorOpen    bool            `json:"navigatorOpen"`
	ProactiveContext string          `json:"proactiveContext,omitempty"`
	IsLoadingMessage bool            `json:"isLoadingMessage"`
	IsLoadingQuest   bool            `json:"isLoadingQuest"`
	Tour             tour.State      `json:"tour"`
}

// Snapshot returns the current read model.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Vector:                s.vector.Clone(),
		Score:                 s.score,
		Recommendation:        s.recommendation,
		ChatHistories:         copyHistories(s.chatHistories),
		ToolStates:            copyToolStates(s.toolStates),
		Schedules:             append([]schedule.Schedule(nil), s.schedules...),
		CompletedTours:        s.tours.CompletedTours(),
		FontSize:              s.fontSize,
		ActivityLog:           append([]activity.Entry(nil), s.log...),
		IsListeningModeActive: s.listeningMode,
		CoherencePoints:       s.points,
		CoherenceStreak:       s.streak,
		LastActivityTimestamp: s.lastActivity,
		CompletedQuests:       append([]quest.Quest(nil), s.completedQuests...),
		NavigatorOpen:         s.navigatorOpen,
		ProactiveContext:      s.proactiveContext,
		IsLoadingMessage:      s.loadingMessage,
		IsLoadingQuest:        s.loadingQuest,
		Tour:                  s.tours.State(),
	}
	if s.activeQuest != nil {
		q := *s.activeQuest
		snap.ActiveQuest = &q
	}
	if s.current != nil {
		snap.SessionActive = true
		snap.SessionVariant = s.current.Variant()
	}
	return snap
}

// CurrentSession returns the live session, or nil for the dashboard.
func (s *Store) CurrentSession() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Score returns the integrated coherence score.
func (s *Store) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Recommendation returns the mentor/dimension most in need of attention.
func (s *Store) Recommendation() mentor.Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recommendation
}

// NavigatorOpen reports whether the voice navigator surface is showing.
func (s *Store) NavigatorOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigatorOpen
}

func copyHistories(in map[mentor.ID][]activity.Message) map[mentor.ID][]activity.Message {
	out := make(map[mentor.ID][]activity.Message, len(in))
	for k, v := range in {
		out[k] = append([]activity.Message(nil), v...)
	}
	return out
}

func copyToolStates(in map[string]persistence.ToolState) map[string]persistence.ToolState {
	out := make(map[string]persistence.ToolState, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
