package persistence

import (
	"encoding/json"
	"time"

	"sattva/internal/activity"
	"sattva/internal/coherence"
	"sattva/internal/mentor"
	"sattva/internal/quest"
	"sattva/internal/schedule"
)

// StorageKey is the single key the application document is stored under.
const StorageKey = "sattva_state"

// ToolState holds one tool's opaque payload plus its bounded history list.
type ToolState struct {
	Data    json.RawMessage   `json:"data,omitempty"`
	History []json.RawMessage `json:"history,omitempty"`
}

// Document is the durable subset of application state. Anything outside this
// shape is transient and must never be persisted.
type Document struct {
	CoherenceVector       coherence.Vector                 `json:"coherenceVector"`
	ChatHistories         map[mentor.ID][]activity.Message `json:"chatHistories"`
	ToolStates            map[string]ToolState             `json:"toolStates"`
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
}
