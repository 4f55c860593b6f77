package spiral

import (
	"math"
	"strings"
)

const (
	// BaseConvergence is the floor every recap starts from.
	BaseConvergence = 0.70
	// DefaultMaxConvergence caps the computed score.
	DefaultMaxConvergence = 0.95

	maxLengthScore = 0.15
	maxMotifScore  = 0.10
)

// Convergence scores how settled a recap is (η). Longer inputs and richer
// motif sets raise it from BaseConvergence up to max.
func Convergence(inputWords, motifCount int, max float64) float64 {
	if inputWords == 0 {
		return BaseConvergence
	}
	lengthScore := math.Min(float64(inputWords)/200, maxLengthScore)
	motifScore := math.Min(float64(motifCount)/5, maxMotifScore)
	return math.Min(BaseConvergence+lengthScore+motifScore, max)
}

// WordCount counts whitespace separated fields.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
