// Package tour implements the guided tour step-engine: a small state machine
// that walks the user through highlighted UI steps. Step definitions belong
// to the presentation layer; the engine only tracks progress.
package tour

import (
	"sort"
	"sync"
)

// MainTourID is the onboarding tour. Finishing it chains a side effect
// configured by the owner (return to dashboard, open the voice navigator).
const MainTourID = "onboarding"

// State is the externally visible tour progress.
type State struct {
	IsActive bool   `json:"isActive"`
	Step     int    `json:"step"`
	TourID   string `json:"tourId"`
	Context  string `json:"context"`
}

// Engine runs at most one tour at a time and remembers which tours have
// been completed.
type Engine struct {
	mu        sync.Mutex
	state     State
	completed map[string]bool
	onMainEnd func() // invoked after the onboarding tour completes
}

// NewEngine constructs an idle engine. onMainEnd may be nil.
func NewEngine(onMainEnd func()) *Engine {
	return &Engine{completed: make(map[string]bool), onMainEnd: onMainEnd}
}

// Start begins a tour at step 0. No-op while another tour is active.
func (e *Engine) Start(tourID, context string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.IsActive {
		return
	}
	e.state = State{IsActive: true, Step: 0, TourID: tourID, Context: context}
}

// Next advances the step. The engine does not know the tour's length; the
// presentation layer ends the tour when it runs out of step definitions.
func (e *Engine) Next() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.IsActive {
		e.state.Step++
	}
}

// Previous steps back.
func (e *Engine) Previous() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.IsActive {
		e.state.Step--
	}
}

// End finishes the active tour, idempotently recording its (context
// qualified) id as completed. Ending the onboarding tour chains the
// configured side effect.
func (e *Engine) End() {
	e.mu.Lock()
	if !e.state.IsActive {
		e.mu.Unlock()
		return
	}
	tourID := e.state.TourID
	marker := tourID
	if e.state.Context != "" {
		marker = tourID + ":" + e.state.Context
	}
	e.completed[marker] = true
	e.state = State{}
	chained := tourID == MainTourID && e.onMainEnd != nil
	onMainEnd := e.onMainEnd
	e.mu.Unlock()

	if chained {
		onMainEnd()
	}
}

// State returns the current progress.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CompletedTours lists completed tour markers in stable order.
func (e *Engine) CompletedTours() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.completed))
	for id := range e.completed {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// HasCompleted reports whether a tour marker was recorded.
func (e *Engine) HasCompleted(marker string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.completed[marker]
}

// Restore seeds the completed set from persisted state.
func (e *Engine) Restore(completed []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range completed {
		e.completed[id] = true
	}
}
