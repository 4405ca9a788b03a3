// Package activity defines the immutable log of completed interactions.
package activity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sattva/internal/coherence"
	"sattva/internal/mentor"
)

// Kind tags the payload carried by a log entry.
type Kind string

const (
	KindChatSession Kind = "chat_session"
	KindToolUsage   Kind = "tool_usage"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser   Role = "user"
	RoleMentor Role = "mentor"
)

// Message is one turn of a mentor chat transcript.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Entry is one completed interaction. Entries are immutable after creation;
// VectorSnapshot always holds the coherence vector AFTER the entry was
// applied, which is what time-series views consume.
type Entry struct {
	ID             string           `json:"id"`
	Timestamp      time.Time        `json:"timestamp"`
	MentorID       mentor.ID        `json:"mentorId"`
	VectorSnapshot coherence.Vector `json:"vectorSnapshot"`

	Kind       Kind            `json:"kind"`
	Transcript []Message       `json:"transcript,omitempty"` // chat_session
	ToolID     string          `json:"toolId,omitempty"`     // tool_usage
	ToolResult json.RawMessage `json:"toolResult,omitempty"` // tool_usage, opaque
}

// NewID builds a unique, time-derived entry ID.
func NewID(at time.Time) string {
	return fmt.Sprintf("%d-%s", at.UnixMilli(), uuid.NewString()[:8])
}

// Draft is the caller-supplied part of an entry before orchestration fills
// in the snapshot and identity fields.
type Draft struct {
	MentorID   mentor.ID
	Kind       Kind
	Transcript []Message
	ToolID     string
	ToolResult json.RawMessage
}
