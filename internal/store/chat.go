package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sattva/internal/activity"
	"sattva/internal/async"
	"sattva/internal/genai"
	"sattva/internal/mentor"
)

const replyTimeout = 45 * time.Second

// SendChatMessage appends the user's message to the mentor's history and
// requests the mentor's reply in the background. The loading flag is set for
// the duration of the fetch; a failure becomes a toast, never an error to
// the caller.
func (s *Store) SendChatMessage(id mentor.ID, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.mu.Lock()
	s.chatHistories[id] = append(s.chatHistories[id], activity.Message{
		Role:      activity.RoleUser,
		Text:      text,
		Timestamp: s.now(),
	})
	s.loadingMessage = true
	transcript := append([]activity.Message(nil), s.chatHistories[id]...)
	s.mu.Unlock()
	s.commit()

	s.requestReply(id, transcript)
}

func (s *Store) requestReply(id mentor.ID, transcript []activity.Message) {
	if s.ai == nil {
		s.clearLoadingMessage()
		return
	}
	async.Go(s.logger, "mentor-reply", func() {
		defer s.clearLoadingMessage()

		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		defer cancel()
		reply, err := s.ai.GenerateText(ctx, genai.Request{
			System: mentorSystemPrompt(id),
			Prompt: renderChatPrompt(transcript),
		})
		if err != nil {
			s.logger.Warn("mentor reply failed: %v", err)
			s.toasts.Error(genai.UserMessage(err))
			return
		}

		s.mu.Lock()
		// Drop the reply if the user left this mentor's chat meanwhile.
		if s.current == nil {
			s.mu.Unlock()
			return
		}
		if chat, ok := s.current.MentorChat(); !ok || chat.MentorID != id {
			s.mu.Unlock()
			return
		}
		s.chatHistories[id] = append(s.chatHistories[id], activity.Message{
			Role:      activity.RoleMentor,
			Text:      reply,
			Timestamp: s.now(),
		})
		s.mu.Unlock()
		s.commit()
	})
}

func (s *Store) clearLoadingMessage() {
	s.mu.Lock()
	s.loadingMessage = false
	s.mu.Unlock()
	s.commit()
}

func mentorSystemPrompt(id mentor.ID) string {
	m, ok := mentor.Get(id)
	if !ok {
		return "You are a supportive wellness mentor. Keep replies short and warm."
	}
	return fmt.Sprintf(
		"You are %s, a wellness mentor focused on %s. Reply in a few warm, concrete sentences. Never give medical advice.",
		m.Name, m.Label,
	)
}

func renderChatPrompt(transcript []activity.Message) string {
	const maxTurns = 20
	if len(transcript) > maxTurns {
		transcript = transcript[len(transcript)-maxTurns:]
	}
	var b strings.Builder
	for _, m := range transcript {
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Text)
		b.WriteString("\n")
	}
	b.WriteString("mentor:")
	return b.String()
}
