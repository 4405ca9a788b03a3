// Package mentor holds the static registry of mentor agents: which dimension
// each mentor owns, greetings, and the recommendation lookup.
package mentor

import "sattva/internal/coherence"

// ID identifies a mentor agent.
type ID string

const (
	Sage    ID = "sage"    // purpose
	Clarity ID = "clarity" // mental
	Kindred ID = "kindred" // relational
	Ember   ID = "ember"   // emotional
	Root    ID = "root"    // somatic
	Compass ID = "compass" // ethical action
	Steward ID = "steward" // resources
)

// Mentor describes one agent.
type Mentor struct {
	ID        ID
	Name      string
	Dimension coherence.Dimension
	Label     string // human-readable dimension label
	Greeting  string // seeded as the first chat message
}

var registry = map[ID]Mentor{
	Sage:    {ID: Sage, Name: "Sage", Dimension: coherence.DimPurpose, Label: "Purpose & Meaning", Greeting: "Welcome back. What feels most alive in you today?"},
	Clarity: {ID: Clarity, Name: "Clarity", Dimension: coherence.DimMental, Label: "Mental Clarity", Greeting: "Let's find some stillness. What's occupying your mind?"},
	Kindred: {ID: Kindred, Name: "Kindred", Dimension: coherence.DimRelational, Label: "Relationships", Greeting: "Good to see you. Who's been on your mind lately?"},
	Ember:   {ID: Ember, Name: "Ember", Dimension: coherence.DimEmotional, Label: "Emotional Balance", Greeting: "I'm here. How are you feeling, honestly?"},
	Root:    {ID: Root, Name: "Root", Dimension: coherence.DimSomatic, Label: "Body & Energy", Greeting: "Take a breath. How is your body doing today?"},
	Compass: {ID: Compass, Name: "Compass", Dimension: coherence.DimEthical, Label: "Principled Action", Greeting: "Welcome. Is there a choice you're weighing?"},
	Steward: {ID: Steward, Name: "Steward", Dimension: coherence.DimResources, Label: "Resources & Security", Greeting: "Hello. What would ease feel like in your finances or time?"},
}

var byDimension = func() map[coherence.Dimension]Mentor {
	m := make(map[coherence.Dimension]Mentor, len(registry))
	for _, mt := range registry {
		m[mt.Dimension] = mt
	}
	return m
}()

// Get looks up a mentor by ID.
func Get(id ID) (Mentor, bool) {
	m, ok := registry[id]
	return m, ok
}

// ForDimension returns the mentor owning a dimension.
func ForDimension(d coherence.Dimension) Mentor {
	return byDimension[d]
}

// All returns every dimension-owning mentor in canonical dimension order.
func All() []Mentor {
	out := make([]Mentor, 0, len(coherence.Dimensions))
	for _, d := range coherence.Dimensions {
		out = append(out, byDimension[d])
	}
	return out
}

// Recommendation names the mentor and dimension most in need of attention.
type Recommendation struct {
	MentorID       ID     `json:"mentorId"`
	MentorName     string `json:"mentorName"`
	DimensionKey   string `json:"dimensionKey"`
	DimensionLabel string `json:"dimensionLabel"`
}

// Recommend picks the dimension with the highest dissonance and maps it to
// its owning mentor. Re-evaluated after every vector change; purely local.
func Recommend(v coherence.Vector) Recommendation {
	d := coherence.MostDissonant(v)
	m := byDimension[d]
	return Recommendation{
		MentorID:       m.ID,
		MentorName:     m.Name,
		DimensionKey:   string(d),
		DimensionLabel: m.Label,
	}
}
