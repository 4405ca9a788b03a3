package mentor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sattva/internal/coherence"
)

func TestEveryDimensionHasAnOwner(t *testing.T) {
	for _, d := range coherence.Dimensions {
		m := ForDimension(d)
		require.NotEmpty(t, m.ID, "dimension %s has no mentor", d)
		assert.NotEmpty(t, m.Greeting)
		assert.NotEmpty(t, m.Label)
	}
}

func TestRecommendTargetsHighestDissonance(t *testing.T) {
	v := coherence.Default()
	v.Dimensions[coherence.DimEmotional] = coherence.DimensionState{Coherence: 40, Dissonance: 90}
	rec := Recommend(v)
	assert.Equal(t, Ember, rec.MentorID)
	assert.Equal(t, "emotional", rec.DimensionKey)
	assert.Equal(t, "Emotional Balance", rec.DimensionLabel)
}

func TestAllFollowsCanonicalOrder(t *testing.T) {
	all := All()
	require.Len(t, all, len(coherence.Dimensions))
	assert.Equal(t, Sage, all[0].ID)
	assert.Equal(t, Steward, all[len(all)-1].ID)
}
