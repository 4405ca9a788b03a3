package tour

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartIsNoOpWhileActive(t *testing.T) {
	e := NewEngine(nil)
	e.Start("onboarding", "")
	e.Next()
	e.Start("journey_intro", "")
	st := e.State()
	assert.Equal(t, "onboarding", st.TourID)
	assert.Equal(t, 1, st.Step)
}

func TestNextPreviousAdjustWithoutBounds(t *testing.T) {
	e := NewEngine(nil)
	e.Start("journey_intro", "")
	e.Previous()
	assert.Equal(t, -1, e.State().Step) // bound checks are the renderer's job
	e.Next()
	e.Next()
	assert.Equal(t, 1, e.State().Step)
}

func TestEndRecordsCompletionIdempotently(t *testing.T) {
	e := NewEngine(nil)
	e.Start("journey_intro", "")
	e.End()
	assert.True(t, e.HasCompleted("journey_intro"))
	assert.False(t, e.State().IsActive)

	// Re-running and re-ending does not duplicate the marker.
	e.Start("journey_intro", "")
	e.End()
	assert.Equal(t, []string{"journey_intro"}, e.CompletedTours())
}

func TestEndQualifiesMarkerWithContext(t *testing.T) {
	e := NewEngine(nil)
	e.Start("tool_intro", "meditation")
	e.End()
	assert.True(t, e.HasCompleted("tool_intro:meditation"))
	assert.False(t, e.HasCompleted("tool_intro"))
}

func TestMainTourChainsSideEffect(t *testing.T) {
	chained := 0
	e := NewEngine(func() { chained++ })

	e.Start("journey_intro", "")
	e.End()
	assert.Zero(t, chained)

	e.Start(MainTourID, "")
	e.End()
	assert.Equal(t, 1, chained)
}

func TestRestoreSeedsCompleted(t *testing.T) {
	e := NewEngine(nil)
	e.Restore([]string{"onboarding", "tool_intro:prayer"})
	assert.True(t, e.HasCompleted("onboarding"))
	assert.True(t, e.HasCompleted("tool_intro:prayer"))
}
