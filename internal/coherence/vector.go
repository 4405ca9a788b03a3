// Package coherence defines the multi-dimensional well-being state and the
// pure functions derived from it. Nothing here touches storage or I/O.
package coherence

// Dimension identifies one axis of the coherence vector.
type Dimension string

const (
	DimPurpose    Dimension = "purpose"
	DimMental     Dimension = "mental"
	DimRelational Dimension = "relational"
	DimEmotional  Dimension = "emotional"
	DimSomatic    Dimension = "somatic"
	DimEthical    Dimension = "ethical_action"
	DimResources  Dimension = "resources"
)

// Dimensions is the canonical ordering. Tie-breaking and iteration always
// follow this order so derived results are deterministic.
var Dimensions = []Dimension{
	DimPurpose,
	DimMental,
	DimRelational,
	DimEmotional,
	DimSomatic,
	DimEthical,
	DimResources,
}

// DimensionState holds the two independent axes of one dimension. A
// dimension can be simultaneously high-coherence and high-dissonance; the
// values are not complements.
type DimensionState struct {
	Coherence  float64 `json:"coherence"`
	Dissonance float64 `json:"dissonance"`
}

// Vector is the user's wellness state: an alignment scalar plus one
// DimensionState per canonical dimension. All values live in [0,100].
type Vector struct {
	Alignment  float64                      `json:"alignment"`
	Dimensions map[Dimension]DimensionState `json:"dimensions"`
}

// Default returns the first-run vector.
func Default() Vector {
	dims := make(map[Dimension]DimensionState, len(Dimensions))
	for _, d := range Dimensions {
		dims[d] = DimensionState{Coherence: 50, Dissonance: 30}
	}
	return Vector{Alignment: 50, Dimensions: dims}
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (v Vector) Clone() Vector {
	dims := make(map[Dimension]DimensionState, len(v.Dimensions))
	for k, s := range v.Dimensions {
		dims[k] = s
	}
	return Vector{Alignment: v.Alignment, Dimensions: dims}
}

// Normalize clamps every field into [0,100] and fills in any dimension a
// stale persisted blob might be missing. Returns the normalized copy.
func (v Vector) Normalize() Vector {
	out := v.Clone()
	out.Alignment = clamp(out.Alignment)
	if out.Dimensions == nil {
		out.Dimensions = make(map[Dimension]DimensionState, len(Dimensions))
	}
	for _, d := range Dimensions {
		s, ok := out.Dimensions[d]
		if !ok {
			s = DimensionState{Coherence: 50, Dissonance: 30}
		}
		s.Coherence = clamp(s.Coherence)
		s.Dissonance = clamp(s.Dissonance)
		out.Dimensions[d] = s
	}
	return out
}

func clamp(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}

// Clamp bounds a value into the [0,100] range used by every vector field.
func Clamp(x float64) float64 { return clamp(x) }
