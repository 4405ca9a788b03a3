package store

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sattva/internal/activity"
	"sattva/internal/coherence"
	"sattva/internal/mentor"
	"sattva/internal/notify"
	"sattva/internal/orchestrator"
	"sattva/internal/persistence"
	"sattva/internal/quest"
	"sattva/internal/session"
)

// memKV is an in-memory KV for store tests.
type memKV struct {
	items map[string][]byte
}

func newMemKV() *memKV { return &memKV{items: map[string][]byte{}} }

func (m *memKV) GetItem(key string) ([]byte, error) {
	v, ok := m.items[key]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return v, nil
}

func (m *memKV) SetItem(key string, value []byte) error {
	m.items[key] = value
	return nil
}

func (m *memKV) RemoveItem(key string) error {
	delete(m.items, key)
	return nil
}

type testEnv struct {
	store *Store
	kv    *memKV
	clock *fakeClock
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T, opts ...func(*Options)) *testEnv {
	t.Helper()
	kv := newMemKV()
	clock := &fakeClock{t: time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)}
	o := Options{
		Persister: persistence.NewPersister(kv, nil),
		Orch:      orchestrator.NewWithMetrics(nil, orchestrator.MustNewMetrics(prometheus.NewRegistry())),
		Toasts:    notify.NewCenter(),
		Clock:     clock.Now,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return &testEnv{store: New(o), kv: kv, clock: clock}
}

func toolDraft(toolID string) activity.Draft {
	return activity.Draft{Kind: activity.KindToolUsage, ToolID: toolID}
}

func TestLogActivityCapsAtHundredNewestFirst(t *testing.T) {
	env := newTestStore(t)
	for i := 0; i < 130; i++ {
		env.clock.Advance(time.Minute)
		env.store.LogActivity(toolDraft(orchestrator.ToolMeditation))
	}
	snap := env.store.Snapshot()
	require.Len(t, snap.ActivityLog, 100)
	// Newest first: timestamps strictly descending.
	for i := 1; i < len(snap.ActivityLog); i++ {
		assert.True(t, snap.ActivityLog[i-1].Timestamp.After(snap.ActivityLog[i].Timestamp))
	}
}

func TestLogActivitySnapshotMatchesStoreVector(t *testing.T) {
	env := newTestStore(t)
	entry := env.store.LogActivity(toolDraft(orchestrator.ToolJournaling))
	snap := env.store.Snapshot()
	assert.Equal(t, snap.Vector, entry.VectorSnapshot)
	assert.Equal(t, entry.ID, snap.ActivityLog[0].ID)
}

func TestLogActivityRecomputesDerived(t *testing.T) {
	env := newTestStore(t)
	before := env.store.Score()
	env.store.LogActivity(toolDraft(orchestrator.ToolMeditation))
	after := env.store.Score()
	assert.GreaterOrEqual(t, after, before)
	assert.Equal(t, coherence.Score(env.store.Snapshot().Vector), after)
}

func TestStreakLifecycle(t *testing.T) {
	env := newTestStore(t)

	env.store.LogActivity(toolDraft(orchestrator.ToolPrayer))
	assert.Equal(t, 1, env.store.Snapshot().CoherenceStreak)

	// Same day: unchanged.
	env.clock.Advance(2 * time.Hour)
	env.store.LogActivity(toolDraft(orchestrator.ToolPrayer))
	assert.Equal(t, 1, env.store.Snapshot().CoherenceStreak)

	// Next day: increments.
	env.clock.Advance(24 * time.Hour)
	env.store.LogActivity(toolDraft(orchestrator.ToolPrayer))
	assert.Equal(t, 2, env.store.Snapshot().CoherenceStreak)

	// Two-day gap still counts.
	env.clock.Advance(48 * time.Hour)
	env.store.LogActivity(toolDraft(orchestrator.ToolPrayer))
	assert.Equal(t, 3, env.store.Snapshot().CoherenceStreak)

	// Longer gap resets.
	env.clock.Advance(96 * time.Hour)
	env.store.LogActivity(toolDraft(orchestrator.ToolPrayer))
	assert.Equal(t, 1, env.store.Snapshot().CoherenceStreak)
}

func TestStreakCountsCalendarDaysAcrossOffsetChange(t *testing.T) {
	// A spring-forward day is only 23 hours long; the streak must still see
	// the next calendar day as a gap of one, not zero.
	std := time.FixedZone("STD", -5*3600)
	dst := time.FixedZone("DST", -4*3600)

	env := newTestStore(t)
	env.clock.t = time.Date(2026, 3, 7, 22, 0, 0, 0, std)
	env.store.LogActivity(toolDraft(orchestrator.ToolPrayer))
	require.Equal(t, 1, env.store.Snapshot().CoherenceStreak)

	env.clock.t = time.Date(2026, 3, 8, 8, 0, 0, 0, dst)
	env.store.LogActivity(toolDraft(orchestrator.ToolPrayer))
	assert.Equal(t, 2, env.store.Snapshot().CoherenceStreak)
}

func TestPointsAccumulate(t *testing.T) {
	env := newTestStore(t)
	env.store.LogActivity(toolDraft(orchestrator.ToolSpendingMap))
	env.store.LogActivity(toolDraft("unknown_tool"))
	snap := env.store.Snapshot()
	assert.Greater(t, snap.CoherencePoints, 0)
}

func TestRehydrationRestoresDurablesAndRecomputes(t *testing.T) {
	kv := newMemKV()
	first := newTestStore(t, func(o *Options) { o.Persister = persistence.NewPersister(kv, nil) })
	first.store.LogActivity(toolDraft(orchestrator.ToolMeditation))
	first.store.SetFontSize("large")
	wantScore := first.store.Score()

	second := New(Options{
		Persister: persistence.NewPersister(kv, nil),
		Orch:      orchestrator.NewWithMetrics(nil, orchestrator.MustNewMetrics(prometheus.NewRegistry())),
	})
	snap := second.Snapshot()
	assert.Equal(t, wantScore, snap.Score)
	assert.Equal(t, "large", snap.FontSize)
	require.Len(t, snap.ActivityLog, 1)
}

func TestRehydrationDropsStaleTransients(t *testing.T) {
	kv := newMemKV()
	// A blob written by an older build that (wrongly) persisted transient
	// flags must not resurrect them.
	blob := map[string]any{
		"coherenceVector":  coherence.Default(),
		"isLoadingMessage": true,
		"currentSession":   map[string]any{"variant": "mentor_chat"},
	}
	data, err := json.Marshal(blob)
	require.NoError(t, err)
	require.NoError(t, kv.SetItem(persistence.StorageKey, data))

	s := New(Options{
		Persister: persistence.NewPersister(kv, nil),
		Orch:      orchestrator.NewWithMetrics(nil, orchestrator.MustNewMetrics(prometheus.NewRegistry())),
	})
	snap := s.Snapshot()
	assert.False(t, snap.IsLoadingMessage)
	assert.False(t, snap.SessionActive)
	assert.Nil(t, s.CurrentSession())
}

func TestQuestCompletesOnMatchingTool(t *testing.T) {
	env := newTestStore(t)
	var toasts []notify.Toast
	env.store.Toasts().Subscribe(func(tst notify.Toast) { toasts = append(toasts, tst) })

	q := questFixture(orchestrator.ToolBreathwork)
	env.store.mu.Lock()
	env.store.activeQuest = &q
	env.store.mu.Unlock()

	// A different tool does not complete it.
	env.store.LogActivity(toolDraft(orchestrator.ToolPrayer))
	assert.NotNil(t, env.store.Snapshot().ActiveQuest)

	env.store.LogActivity(toolDraft(orchestrator.ToolBreathwork))
	snap := env.store.Snapshot()
	assert.Nil(t, snap.ActiveQuest)
	require.Len(t, snap.CompletedQuests, 1)
	assert.True(t, snap.CompletedQuests[0].Completed())
	require.NotEmpty(t, toasts)
	assert.Equal(t, notify.LevelSuccess, toasts[len(toasts)-1].Level)
}

func TestSubscribersSeeEveryAction(t *testing.T) {
	env := newTestStore(t)
	var seen []Snapshot
	unsub := env.store.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	env.store.SetListeningMode(true)
	env.store.LogActivity(toolDraft(orchestrator.ToolGratitude))
	require.Len(t, seen, 2)
	assert.True(t, seen[0].IsListeningModeActive)
	assert.Len(t, seen[1].ActivityLog, 1)

	unsub()
	env.store.SetFontSize("small")
	assert.Len(t, seen, 2)
}

func TestToolStateAndHistoryPersist(t *testing.T) {
	env := newTestStore(t)
	env.store.SetToolState("journaling", json.RawMessage(`{"streakGoal":3}`))
	env.store.AppendToolHistory("journaling", json.RawMessage(`{"page":1}`))
	env.store.AppendToolHistory("journaling", json.RawMessage(`{"page":2}`))

	ts := env.store.Snapshot().ToolStates["journaling"]
	assert.JSONEq(t, `{"streakGoal":3}`, string(ts.Data))
	require.Len(t, ts.History, 2)
	// Newest first.
	assert.JSONEq(t, `{"page":2}`, string(ts.History[0]))

	second := New(Options{
		Persister: persistence.NewPersister(env.kv, nil),
		Orch:      orchestrator.NewWithMetrics(nil, orchestrator.MustNewMetrics(prometheus.NewRegistry())),
	})
	restored := second.Snapshot().ToolStates["journaling"]
	assert.JSONEq(t, `{"streakGoal":3}`, string(restored.Data))
	assert.Len(t, restored.History, 2)
}

func TestApplyVectorAnalysisClampsAndRecomputes(t *testing.T) {
	env := newTestStore(t)
	v := coherence.Default()
	v.Alignment = 300
	v.Dimensions[coherence.DimMental] = coherence.DimensionState{Coherence: 150, Dissonance: -20}

	env.store.ApplyVectorAnalysis(v)

	snap := env.store.Snapshot()
	assert.Equal(t, 100.0, snap.Vector.Alignment)
	assert.Equal(t, 100.0, snap.Vector.Dimensions[coherence.DimMental].Coherence)
	assert.Equal(t, 0.0, snap.Vector.Dimensions[coherence.DimMental].Dissonance)
	assert.Equal(t, coherence.Score(snap.Vector), snap.Score)
}

func TestResetReturnsToDefaults(t *testing.T) {
	env := newTestStore(t)
	env.store.LogActivity(toolDraft(orchestrator.ToolMeditation))
	env.store.Reset()
	snap := env.store.Snapshot()
	assert.Empty(t, snap.ActivityLog)
	assert.Equal(t, coherence.Default(), snap.Vector)
	assert.Zero(t, snap.CoherencePoints)
}

func TestMentorChatSeedsGreetingOnce(t *testing.T) {
	env := newTestStore(t)
	env.store.StartSession(sessionChat(mentor.Ember, false, false))
	snap := env.store.Snapshot()
	require.Len(t, snap.ChatHistories[mentor.Ember], 1)
	assert.Equal(t, activity.RoleMentor, snap.ChatHistories[mentor.Ember][0].Role)

	env.store.EndSession(true, nil)
	env.store.StartSession(sessionChat(mentor.Ember, false, false))
	assert.Len(t, env.store.Snapshot().ChatHistories[mentor.Ember], 1)
}

func questFixture(toolID string) quest.Quest {
	return quest.New(toolID, coherence.DimSomatic, "Three rounds of box breathing.", time.Now())
}

func sessionChat(id mentor.ID, voiceMode, voiceOrigin bool) *session.Session {
	origin := session.OriginManual
	if voiceOrigin {
		origin = session.OriginVoice
	}
	return session.NewMentorChat(id, voiceMode, origin)
}

func ExampleStore_Score() {
	s := New(Options{Orch: orchestrator.NewWithMetrics(nil, orchestrator.MustNewMetrics(prometheus.NewRegistry()))})
	fmt.Println(s.Score() >= 0 && s.Score() <= 100)
	// Output: true
}
