package store

// SetListeningMode toggles the always-listening voice flag.
func (s *Store) SetListeningMode(active bool) {
	s.mu.Lock()
	s.listeningMode = active
	s.mu.Unlock()
	s.commit()
}

// SetFontSize stores the UI font preference.
func (s *Store) SetFontSize(size string) {
	s.mu.Lock()
	s.fontSize = size
	s.mu.Unlock()
	s.commit()
}

// StartTour begins a guided tour; no-op while one is active.
func (s *Store) StartTour(tourID, context string) {
	s.tours.Start(tourID, context)
	s.commit()
}

// NextTourStep advances the active tour.
func (s *Store) NextTourStep() {
	s.tours.Next()
	s.commit()
}

// PreviousTourStep steps the active tour back.
func (s *Store) PreviousTourStep() {
	s.tours.Previous()
	s.commit()
}

// EndTour finishes the active tour. Completing the onboarding tour chains
// back to the dashboard and opens the voice navigator (see onMainTourEnd).
func (s *Store) EndTour() {
	s.tours.End()
	s.commit()
}

// onMainTourEnd is the chained side effect of finishing onboarding.
func (s *Store) onMainTourEnd() {
	s.mu.Lock()
	s.current = nil
	s.pending = nil
	s.navigatorOpen = true
	s.proactiveContext = ""
	s.mu.Unlock()
}
