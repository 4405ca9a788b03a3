package coherence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformVector(coh, dis, alignment float64) Vector {
	v := Vector{Alignment: alignment, Dimensions: map[Dimension]DimensionState{}}
	for _, d := range Dimensions {
		v.Dimensions[d] = DimensionState{Coherence: coh, Dissonance: dis}
	}
	return v
}

func TestScoreBalancedVector(t *testing.T) {
	// All dimensions 50/50 with alignment 70: net 0, factor 1.04, score 50.
	v := uniformVector(50, 50, 70)
	assert.Equal(t, 50, Score(v))
}

func TestScoreExtremes(t *testing.T) {
	assert.Equal(t, 100, Score(uniformVector(100, 0, 100)))
	assert.Equal(t, 0, Score(uniformVector(0, 100, 100)))
	assert.Equal(t, 95, Score(uniformVector(100, 0, 0))) // (100*0.9+100)/2
}

func TestScoreStaysInRange(t *testing.T) {
	cases := []Vector{
		uniformVector(0, 0, 0),
		uniformVector(100, 100, 50),
		uniformVector(87, 3, 12),
		uniformVector(3, 87, 99),
	}
	for _, v := range cases {
		s := Score(v)
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, 100)
	}
}

func TestScoreMonotonicInCoherence(t *testing.T) {
	for _, target := range Dimensions {
		prev := -1
		for coh := 0.0; coh <= 100; coh += 10 {
			v := uniformVector(40, 60, 50)
			v.Dimensions[target] = DimensionState{Coherence: coh, Dissonance: 60}
			s := Score(v)
			require.GreaterOrEqual(t, s, prev, "coherence bump must not lower score (dim=%s)", target)
			prev = s
		}
	}
}

func TestScoreMonotonicInDissonance(t *testing.T) {
	for _, target := range Dimensions {
		prev := 101
		for dis := 0.0; dis <= 100; dis += 10 {
			v := uniformVector(40, 60, 50)
			v.Dimensions[target] = DimensionState{Coherence: 40, Dissonance: dis}
			s := Score(v)
			require.LessOrEqual(t, s, prev, "dissonance bump must not raise score (dim=%s)", target)
			prev = s
		}
	}
}

func TestMostDissonantPicksMaximum(t *testing.T) {
	v := uniformVector(50, 20, 50)
	v.Dimensions[DimSomatic] = DimensionState{Coherence: 50, Dissonance: 80}
	assert.Equal(t, DimSomatic, MostDissonant(v))
}

func TestMostDissonantTieBreaksCanonically(t *testing.T) {
	v := uniformVector(50, 20, 50)
	v.Dimensions[DimMental] = DimensionState{Coherence: 50, Dissonance: 75}
	v.Dimensions[DimResources] = DimensionState{Coherence: 50, Dissonance: 75}
	// mental precedes resources in canonical order.
	assert.Equal(t, DimMental, MostDissonant(v))
}

func TestNormalizeClampsAndFills(t *testing.T) {
	v := Vector{Alignment: 140, Dimensions: map[Dimension]DimensionState{
		DimPurpose: {Coherence: -5, Dissonance: 250},
	}}
	out := v.Normalize()
	assert.Equal(t, 100.0, out.Alignment)
	assert.Equal(t, 0.0, out.Dimensions[DimPurpose].Coherence)
	assert.Equal(t, 100.0, out.Dimensions[DimPurpose].Dissonance)
	require.Contains(t, out.Dimensions, DimResources)
	assert.Equal(t, 50.0, out.Dimensions[DimResources].Coherence)
}
