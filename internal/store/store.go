// Package store owns all application state and is the only place it
// mutates. Every mutation goes through a named action which persists the
// durable subset and notifies subscribers; actions never return errors to
// callers — failures degrade into toasts and logged warnings.
package store

import (
	"sync"
	"time"

	"sattva/internal/activity"
	"sattva/internal/async"
	"sattva/internal/coherence"
	"sattva/internal/genai"
	"sattva/internal/logging"
	"sattva/internal/mentor"
	"sattva/internal/notify"
	"sattva/internal/orchestrator"
	"sattva/internal/persistence"
	"sattva/internal/quest"
	"sattva/internal/schedule"
	"sattva/internal/session"
	"sattva/internal/tour"
)

// maxLogEntries caps the activity log; the oldest entries beyond the cap
// are evicted.
const maxLogEntries = 100

// Options wires the store's collaborators. Persister is required; nil
// optional fields get working defaults.
type Options struct {
	Persister *persistence.Persister
	GenAI     genai.Client
	Logger    logging.Logger
	Toasts    *notify.Center
	Orch      *orchestrator.Orchestrator
	Clock     func() time.Time
}

// Store is the process-wide reactive state container.
type Store struct {
	mu        sync.Mutex
	logger    logging.Logger
	orch      *orchestrator.Orchestrator
	persister *persistence.Persister
	ai        genai.Client
	toasts    *notify.Center
	tours     *tour.Engine
	navGen    async.Generation
	now       func() time.Time

	// durable state
	vector          coherence.Vector
	chatHistories   map[mentor.ID][]activity.Message
	toolStates      map[string]persistence.ToolState
	schedules       []schedule.Schedule
	fontSize        string
	log             []activity.Entry
	listeningMode   bool
	points          int
	streak          int
	lastActivity    time.Time
	activeQuest     *quest.Quest
	completedQuests []quest.Quest

	// derived, recomputed after every vector change
	score          int
	recommendation mentor.Recommendation

	// transient state; always reset on rehydration
	current          *session.Session
	pending          *session.Session
	navigatorOpen    bool
	proactiveContext string
	loadingMessage   bool
	loadingQuest     bool

	subMu       sync.Mutex
	subscribers []func(Snapshot)
}

// New builds the store, rehydrating durable state from the persister.
// Transient fields (active session, loading flags) always start at their
// defaults no matter what was persisted.
func New(opts Options) *Store {
	s := &Store{
		logger:        logging.OrNop(opts.Logger),
		persister:     opts.Persister,
		ai:            opts.GenAI,
		toasts:        opts.Toasts,
		orch:          opts.Orch,
		now:           opts.Clock,
		chatHistories: make(map[mentor.ID][]activity.Message),
		toolStates:    make(map[string]persistence.ToolState),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.orch == nil {
		s.orch = orchestrator.New(s.logger)
	}
	if s.toasts == nil {
		s.toasts = notify.NewCenter()
	}
	s.tours = tour.NewEngine(s.onMainTourEnd)

	s.vector = coherence.Default()
	if s.persister != nil {
		if doc, ok := s.persister.Load(); ok {
			s.rehydrate(doc)
		}
	}
	s.recompute()
	return s
}

// rehydrate copies the durable subset out of a persisted document. Derived
// scalars are recomputed rather than trusted; transient fields stay at
// their zero defaults.
func (s *Store) rehydrate(doc persistence.Document) {
	s.vector = doc.CoherenceVector.Normalize()
	if doc.ChatHistories != nil {
		s.chatHistories = doc.ChatHistories
	}
	if doc.ToolStates != nil {
		s.toolStates = doc.ToolStates
	}
	s.schedules = doc.Schedules
	s.fontSize = doc.FontSize
	s.log = doc.ActivityLog
	if len(s.log) > maxLogEntries {
		s.log = s.log[:maxLogEntries]
	}
	s.listeningMode = doc.IsListeningModeActive
	s.points = doc.CoherencePoints
	s.streak = doc.CoherenceStreak
	s.lastActivity = doc.LastActivityTimestamp
	s.activeQuest = doc.ActiveQuest
	s.completedQuests = doc.CompletedQuests
	s.tours.Restore(doc.CompletedTours)
}

// recompute refreshes derived scalars from the vector. Callers hold no lock
// during New; action paths hold s.mu.
func (s *Store) recompute() {
	s.score = coherence.Score(s.vector)
	s.recommendation = mentor.Recommend(s.vector)
}

// Toasts exposes the notification center for presentation layers.
func (s *Store) Toasts() *notify.Center { return s.toasts }

// TourState exposes the tour engine's read side.
func (s *Store) TourState() tour.State { return s.tours.State() }

// Subscribe registers fn to receive a snapshot after every action. Returns
// an unsubscribe func.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	idx := len(s.subscribers)
	s.subscribers = append(s.subscribers, fn)
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if idx < len(s.subscribers) {
			s.subscribers[idx] = nil
		}
	}
}

// commit persists the durable subset and notifies subscribers. Must be
// called WITHOUT s.mu held.
func (s *Store) commit() {
	s.mu.Lock()
	doc := s.documentLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.persister != nil {
		s.persister.Save(doc)
	}

	s.subMu.Lock()
	subs := make([]func(Snapshot), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.Unlock()
	for _, fn := range subs {
		if fn != nil {
			fn(snap)
		}
	}
}

func (s *Store) documentLocked() persistence.Document {
	return persistence.Document{
		CoherenceVector:       s.vector.Clone(),
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
		ActiveQuest:           s.activeQuest,
		CompletedQuests:       s.completedQuests,
	}
}

// Reset wipes durable storage and returns the store to first-run defaults.
func (s *Store) Reset() {
	s.mu.Lock()
	s.vector = coherence.Default()
	s.chatHistories = make(map[mentor.ID][]activity.Message)
	s.toolStates = make(map[string]persistence.ToolState)
	s.schedules = nil
	s.fontSize = ""
	s.log = nil
	s.listeningMode = false
	s.points = 0
	s.streak = 0
	s.lastActivity = time.Time{}
	s.activeQuest = nil
	s.completedQuests = nil
	s.current = nil
	s.pending = nil
	s.navigatorOpen = false
	s.proactiveContext = ""
	s.loadingMessage = false
	s.loadingQuest = false
	s.recompute()
	s.mu.Unlock()

	if s.persister != nil {
		s.persister.Reset()
	}
	s.commit()
}
