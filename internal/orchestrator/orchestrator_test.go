package orchestrator

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sattva/internal/activity"
	"sattva/internal/coherence"
	"sattva/internal/mentor"
)

func newTestOrchestrator() *Orchestrator {
	return NewWithMetrics(nil, MustNewMetrics(prometheus.NewRegistry()))
}

func TestApplyToolNudgesTargetDimension(t *testing.T) {
	o := newTestOrchestrator()
	before := coherence.Default()
	res := o.Apply(activity.Draft{Kind: activity.KindToolUsage, ToolID: ToolMeditation}, before)

	assert.Greater(t, res.Vector.Dimensions[coherence.DimMental].Coherence,
		before.Dimensions[coherence.DimMental].Coherence)
	assert.Less(t, res.Vector.Dimensions[coherence.DimMental].Dissonance,
		before.Dimensions[coherence.DimMental].Dissonance)
	assert.Greater(t, res.Points, 0)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	o := newTestOrchestrator()
	before := coherence.Default()
	_ = o.Apply(activity.Draft{Kind: activity.KindToolUsage, ToolID: ToolSpendingMap}, before)
	assert.Equal(t, coherence.Default(), before)
}

func TestApplyClampsAtBounds(t *testing.T) {
	o := newTestOrchestrator()
	v := coherence.Default()
	for _, d := range coherence.Dimensions {
		v.Dimensions[d] = coherence.DimensionState{Coherence: 99, Dissonance: 1}
	}
	v.Alignment = 100

	// Apply every known tool repeatedly; nothing may leave [0,100].
	for tool := range toolRules {
		for i := 0; i < 50; i++ {
			res := o.Apply(activity.Draft{Kind: activity.KindToolUsage, ToolID: tool}, v)
			v = res.Vector
		}
	}
	for _, d := range coherence.Dimensions {
		s := v.Dimensions[d]
		require.GreaterOrEqual(t, s.Coherence, 0.0)
		require.LessOrEqual(t, s.Coherence, 100.0)
		require.GreaterOrEqual(t, s.Dissonance, 0.0)
		require.LessOrEqual(t, s.Dissonance, 100.0)
	}
	assert.LessOrEqual(t, v.Alignment, 100.0)
}

func TestApplyUnknownToolIsNeutral(t *testing.T) {
	o := newTestOrchestrator()
	before := coherence.Default()
	res := o.Apply(activity.Draft{Kind: activity.KindToolUsage, ToolID: "tool_from_the_future"}, before)

	assert.Equal(t, before, res.Vector)
	assert.Equal(t, neutralRule.points, res.Points)
}

func TestApplyChatUsesMentorDimension(t *testing.T) {
	o := newTestOrchestrator()
	before := coherence.Default()
	res := o.Apply(activity.Draft{Kind: activity.KindChatSession, MentorID: mentor.Ember}, before)

	assert.Greater(t, res.Vector.Dimensions[coherence.DimEmotional].Coherence,
		before.Dimensions[coherence.DimEmotional].Coherence)
	assert.Equal(t, chatPoints, res.Points)
}

func TestApplyChatUnknownMentorIsNeutral(t *testing.T) {
	o := newTestOrchestrator()
	before := coherence.Default()
	res := o.Apply(activity.Draft{Kind: activity.KindChatSession, MentorID: "nobody"}, before)
	assert.Equal(t, before, res.Vector)
}
