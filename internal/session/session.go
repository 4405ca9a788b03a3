// Package session defines the full-screen experience the user is currently
// inside. At most one session is active at a time; the zero value of *Session
// (nil) means the dashboard is showing.
//
// Session is a sum type: a variant tag plus exactly one per-variant payload,
// reachable only through the constructor for that variant. This keeps the
// "exactly one active variant" invariant out of reach of ad-hoc struct
// literals.
package session

import "sattva/internal/mentor"

// Origin records how the session was entered. Voice-originated sessions exit
// back into the voice navigator instead of the dashboard.
type Origin string

const (
	OriginVoice  Origin = "voice"
	OriginManual Origin = "manual"
)

// Variant tags the active session kind.
type Variant string

const (
	VariantMentorChat    Variant = "mentor_chat"
	VariantTool          Variant = "tool"
	VariantScheduledCall Variant = "scheduled_call"
	VariantJourney       Variant = "journey"
	VariantHelp          Variant = "help"
)

// MentorChat is the payload for a chat with one mentor.
type MentorChat struct {
	MentorID  mentor.ID
	VoiceMode bool
}

// Tool is the payload for a guided tool experience.
type Tool struct {
	ToolID string
}

// ScheduledCall is the payload for a proactive call fired by a due schedule.
type ScheduledCall struct {
	ScheduleID string
	Activity   string
}

// Session is the active full-screen experience.
type Session struct {
	variant Variant
	origin  Origin

	mentorChat    MentorChat
	tool          Tool
	scheduledCall ScheduledCall
}

// NewMentorChat opens a chat session with the given mentor.
func NewMentorChat(id mentor.ID, voiceMode bool, origin Origin) *Session {
	return &Session{
		variant:    VariantMentorChat,
		origin:     origin,
		mentorChat: MentorChat{MentorID: id, VoiceMode: voiceMode},
	}
}

// NewTool opens a guided tool session.
func NewTool(toolID string, origin Origin) *Session {
	return &Session{variant: VariantTool, origin: origin, tool: Tool{ToolID: toolID}}
}

// NewScheduledCall opens the handler for a fired schedule.
func NewScheduledCall(scheduleID, activity string) *Session {
	return &Session{
		variant:       VariantScheduledCall,
		origin:        OriginManual,
		scheduledCall: ScheduledCall{ScheduleID: scheduleID, Activity: activity},
	}
}

// NewJourney opens the progress/journey screen.
func NewJourney(origin Origin) *Session {
	return &Session{variant: VariantJourney, origin: origin}
}

// NewHelp opens the help screen.
func NewHelp(origin Origin) *Session {
	return &Session{variant: VariantHelp, origin: origin}
}

// Variant returns the session kind tag.
func (s *Session) Variant() Variant { return s.variant }

// Origin returns how the session was entered.
func (s *Session) Origin() Origin { return s.origin }

// MentorChat returns the chat payload when the variant matches.
func (s *Session) MentorChat() (MentorChat, bool) {
	return s.mentorChat, s.variant == VariantMentorChat
}

// Tool returns the tool payload when the variant matches.
func (s *Session) Tool() (Tool, bool) {
	return s.tool, s.variant == VariantTool
}

// ScheduledCall returns the scheduled-call payload when the variant matches.
func (s *Session) ScheduledCall() (ScheduledCall, bool) {
	return s.scheduledCall, s.variant == VariantScheduledCall
}
