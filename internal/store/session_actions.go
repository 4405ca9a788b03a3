package store

import (
	"context"
	"encoding/json"
	"time"

	"sattva/internal/activity"
	"sattva/internal/async"
	"sattva/internal/genai"
	"sattva/internal/mentor"
	"sattva/internal/session"
)

// handoffTimeout bounds the fire-and-forget continuation fetch issued when
// the voice navigator opens.
const handoffTimeout = 20 * time.Second

// StartSession makes sess the active full-screen experience. A scheduled
// call never preempts an existing session; every other variant replaces
// whatever is active. At most one of {session, voice navigator} is ever
// showing: starting a session closes an open navigator and invalidates any
// proactive-context fetch still in flight. Mentor chats get their greeting
// seeded when that mentor's history is empty.
func (s *Store) StartSession(sess *session.Session) {
	s.mu.Lock()
	if s.current != nil && sess.Variant() == session.VariantScheduledCall {
		s.mu.Unlock()
		return
	}
	if s.navigatorOpen {
		s.navigatorOpen = false
		s.proactiveContext = ""
		s.navGen.Next()
	}
	s.current = sess
	if chat, ok := sess.MentorChat(); ok {
		s.seedGreetingLocked(chat.MentorID)
	}
	s.mu.Unlock()
	s.commit()
}

func (s *Store) seedGreetingLocked(id mentor.ID) {
	if len(s.chatHistories[id]) > 0 {
		return
	}
	m, ok := mentor.Get(id)
	if !ok {
		return
	}
	s.chatHistories[id] = []activity.Message{{
		Role:      activity.RoleMentor,
		Text:      m.Greeting,
		Timestamp: s.now(),
	}}
}

// EndSession closes the active session. Voice-originated sessions (except a
// text chat the user exited manually) route into the voice navigator with a
// proactive continuation prompt fetched in the background; everything else
// returns to the dashboard, archiving mentor chats that got past the seeded
// greeting.
func (s *Store) EndSession(isManualExit bool, toolResult json.RawMessage) {
	s.mu.Lock()
	cur := s.current
	if cur == nil {
		s.mu.Unlock()
		return
	}
	s.current = nil

	chat, isChat := cur.MentorChat()
	textChatManualExit := isManualExit && isChat && !chat.VoiceMode

	if cur.Origin() == session.OriginVoice && !textChatManualExit {
		input := s.handoffInputLocked(cur, isManualExit, toolResult)
		s.navigatorOpen = true
		s.proactiveContext = ""
		token := s.navGen.Current()
		s.mu.Unlock()
		s.fetchProactiveContext(token, input)
		s.commit()
		return
	}

	var archived bool
	if isChat {
		archived = s.archiveChatLocked(chat.MentorID)
	}
	s.mu.Unlock()
	if !archived {
		// archiveChatLocked already commits through LogActivity when it
		// archived; otherwise commit the plain session close.
		s.commit()
	}
}

// handoffInputLocked picks the material for the navigator's continuation
// prompt: the tool result if present, the transcript for a manually exited
// voice chat, otherwise nothing (a generic closing line).
func (s *Store) handoffInputLocked(cur *session.Session, isManualExit bool, toolResult json.RawMessage) genai.HandoffInput {
	var input genai.HandoffInput
	if tool, ok := cur.Tool(); ok && len(toolResult) > 0 {
		input.ToolID = tool.ToolID
		input.ToolResult = string(toolResult)
		return input
	}
	if chat, ok := cur.MentorChat(); ok && isManualExit {
		input.Transcript = append([]activity.Message(nil), s.chatHistories[chat.MentorID]...)
	}
	return input
}

// fetchProactiveContext asks the generative service for the navigator's
// opening line. Fire-and-forget: failures are swallowed and a result is
// dropped when the navigator closed while the call was in flight.
func (s *Store) fetchProactiveContext(token uint64, input genai.HandoffInput) {
	if s.ai == nil {
		return
	}
	async.Go(s.logger, "proactive-context", func() {
		ctx, cancel := context.WithTimeout(context.Background(), handoffTimeout)
		defer cancel()
		text, err := genai.ContinuationPrompt(ctx, s.ai, input)
		if err != nil {
			s.logger.Warn("proactive context fetch failed: %v", err)
			return
		}
		s.mu.Lock()
		if !s.navGen.Valid(token) || !s.navigatorOpen {
			s.mu.Unlock()
			return
		}
		s.proactiveContext = text
		s.mu.Unlock()
		s.commit()
	})
}

// archiveChatLocked logs a mentor chat as an activity when it holds more
// than the seeded greeting. Returns true when an entry was logged; in that
// case LogActivity has already committed. Must be entered with s.mu held;
// releases and reacquires it around LogActivity.
func (s *Store) archiveChatLocked(id mentor.ID) bool {
	history := s.chatHistories[id]
	if len(history) <= 1 {
		return false
	}
	transcript := append([]activity.Message(nil), history...)
	s.mu.Unlock()
	s.LogActivity(activity.Draft{
		MentorID:   id,
		Kind:       activity.KindChatSession,
		Transcript: transcript,
	})
	s.mu.Lock()
	return true
}

// SwitchMentor archives the current mentor chat (same >1 message rule) and
// opens a chat with the new mentor, preserving voice mode and origin.
func (s *Store) SwitchMentor(id mentor.ID) {
	s.mu.Lock()
	cur := s.current
	voiceMode := false
	origin := session.OriginManual
	if cur != nil {
		if chat, ok := cur.MentorChat(); ok {
			voiceMode = chat.VoiceMode
			origin = cur.Origin()
			s.archiveChatLocked(chat.MentorID)
		}
	}
	s.current = session.NewMentorChat(id, voiceMode, origin)
	s.seedGreetingLocked(id)
	s.mu.Unlock()
	s.commit()
}

// QueueSession stores a session to start right after the voice navigator
// closes.
func (s *Store) QueueSession(sess *session.Session) {
	s.mu.Lock()
	s.pending = sess
	s.mu.Unlock()
	s.commit()
}

// OpenVoiceNavigator shows the navigator without a session handoff.
func (s *Store) OpenVoiceNavigator() {
	s.mu.Lock()
	s.navigatorOpen = true
	s.proactiveContext = ""
	s.mu.Unlock()
	s.commit()
}

// CloseVoiceNavigator hides the navigator, invalidates any in-flight
// proactive-context fetch, and starts the queued pending session if one is
// waiting.
func (s *Store) CloseVoiceNavigator() {
	s.mu.Lock()
	s.navigatorOpen = false
	s.proactiveContext = ""
	s.navGen.Next()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if pending != nil {
		s.StartSession(pending)
		return
	}
	s.commit()
}
