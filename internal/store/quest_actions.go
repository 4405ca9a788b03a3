package store

import (
	"context"
	"time"

	"sattva/internal/async"
	"sattva/internal/genai"
)

const questTimeout = 30 * time.Second

// RefreshQuest asks the generative service for a new quest suggestion when
// none is active. Fire-and-forget; a failure is logged and toasted without
// disturbing any other state.
func (s *Store) RefreshQuest() {
	s.mu.Lock()
	if s.activeQuest != nil || s.loadingQuest || s.ai == nil {
		s.mu.Unlock()
		return
	}
	s.loadingQuest = true
	vector := s.vector.Clone()
	s.mu.Unlock()
	s.commit()

	async.Go(s.logger, "quest-refresh", func() {
		defer func() {
			s.mu.Lock()
			s.loadingQuest = false
			s.mu.Unlock()
			s.commit()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), questTimeout)
		defer cancel()
		q, err := genai.SuggestQuest(ctx, s.ai, vector, s.now())
		if err != nil {
			s.logger.Warn("quest suggestion failed: %v", err)
			s.toasts.Error(genai.UserMessage(err))
			return
		}

		s.mu.Lock()
		if s.activeQuest == nil {
			s.activeQuest = &q
		}
		s.mu.Unlock()
	})
}

// DismissQuest discards the active quest without completing it.
func (s *Store) DismissQuest() {
	s.mu.Lock()
	s.activeQuest = nil
	s.mu.Unlock()
	s.commit()
}
