package orchestrator

import "sattva/internal/coherence"

// Tool identifiers understood by the rule table. Chat tools upstream can
// introduce new identifiers at any time; unknown IDs fall back to the
// neutral rule rather than failing.
const (
	ToolMeditation  = "meditation"
	ToolPrayer      = "prayer"
	ToolJournaling  = "journaling"
	ToolSpendingMap = "spending_map"
	ToolDoshaQuiz   = "dosha_quiz"
	ToolBreathwork  = "breathwork"
	ToolGratitude   = "gratitude"
)

// delta nudges one dimension. Positive coherence is good; positive
// dissonance is bad.
type delta struct {
	dim        coherence.Dimension
	coherence  float64
	dissonance float64
}

// rule describes the vector effect and reward of one activity kind. The
// specific tuning values are configuration, not contract; tests assert only
// the bounding and neutrality invariants.
type rule struct {
	deltas    []delta
	alignment float64
	points    int
}

// neutralRule applies when a tool is unrecognized: no vector movement, a
// minimal award so the activity still counts.
var neutralRule = rule{points: 5}

// chatPoints is awarded for an archived mentor chat on top of the mentor's
// dimension nudge.
const chatPoints = 10

var toolRules = map[string]rule{
	ToolMeditation: {
		deltas: []delta{
			{dim: coherence.DimMental, coherence: +4, dissonance: -5},
			{dim: coherence.DimSomatic, coherence: +2, dissonance: -2},
		},
		points: 20,
	},
	ToolPrayer: {
		deltas: []delta{
			{dim: coherence.DimPurpose, coherence: +4, dissonance: -3},
			{dim: coherence.DimEmotional, coherence: +2, dissonance: -2},
		},
		alignment: +1,
		points:    20,
	},
	ToolJournaling: {
		deltas: []delta{
			{dim: coherence.DimEmotional, coherence: +4, dissonance: -4},
			{dim: coherence.DimMental, coherence: +2, dissonance: -1},
		},
		points: 15,
	},
	ToolSpendingMap: {
		deltas: []delta{
			{dim: coherence.DimResources, coherence: +5, dissonance: -4},
			{dim: coherence.DimEmotional, coherence: +1, dissonance: -1},
		},
		points: 25,
	},
	ToolDoshaQuiz: {
		deltas: []delta{
			{dim: coherence.DimSomatic, coherence: +5, dissonance: -3},
		},
		points: 15,
	},
	ToolBreathwork: {
		deltas: []delta{
			{dim: coherence.DimSomatic, coherence: +4, dissonance: -4},
			{dim: coherence.DimMental, coherence: +1, dissonance: -2},
		},
		points: 15,
	},
	ToolGratitude: {
		deltas: []delta{
			{dim: coherence.DimRelational, coherence: +3, dissonance: -2},
			{dim: coherence.DimEmotional, coherence: +3, dissonance: -2},
		},
		alignment: +1,
		points:    15,
	},
}

// chatRule builds the rule applied when a mentor chat is archived: the
// mentor's own dimension settles a little.
func chatRule(dim coherence.Dimension) rule {
	return rule{
		deltas: []delta{{dim: dim, coherence: +3, dissonance: -3}},
		points: chatPoints,
	}
}
