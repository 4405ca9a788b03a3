package coherence

import "math"

// Score collapses a vector into the single integrated coherence scalar.
//
// Net coherence is the average coherence across dimensions minus the average
// dissonance (range roughly -100..100). Alignment scales the net by a factor
// in [0.9, 1.1] before normalizing the result into [0,100].
func Score(v Vector) int {
	n := float64(len(Dimensions))
	var coherenceSum, dissonanceSum float64
	for _, d := range Dimensions {
		s := v.Dimensions[d]
		coherenceSum += s.Coherence
		dissonanceSum += s.Dissonance
	}
	net := coherenceSum/n - dissonanceSum/n
	factor := 0.9 + 0.2*(v.Alignment/100)
	return int(math.Round(clamp((net*factor + 100) / 2)))
}

// MostDissonant returns the dimension with the strictly highest dissonance.
// Ties resolve to the earliest dimension in canonical order.
func MostDissonant(v Vector) Dimension {
	best := Dimensions[0]
	bestVal := v.Dimensions[best].Dissonance
	for _, d := range Dimensions[1:] {
		if val := v.Dimensions[d].Dissonance; val > bestVal {
			best = d
			bestVal = val
		}
	}
	return best
}
