package spiral

import (
	"math"
	"testing"
)

func TestConvergence(t *testing.T) {
	tests := []struct {
		name   string
		words  int
		motifs int
		max    float64
		want   float64
	}{
		{"No Input", 0, 5, DefaultMaxConvergence, 0.70},
		{"Short Input", 20, 1, DefaultMaxConvergence, 0.70 + 0.10 + 0.10},
		{"Length Capped", 1000, 0, DefaultMaxConvergence, 0.85},
		{"Overall Capped", 1000, 5, DefaultMaxConvergence, 0.95},
		{"Custom Cap", 1000, 5, 0.80, 0.80},
		{"Tiny", 2, 0, DefaultMaxConvergence, 0.71},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Convergence(tc.words, tc.motifs, tc.max)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Convergence(%d, %d) = %v, want %v", tc.words, tc.motifs, got, tc.want)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("  hello\tspiral \n world "); got != 3 {
		t.Errorf("expected 3 words, got %d", got)
	}
	if got := WordCount(""); got != 0 {
		t.Errorf("expected 0 words, got %d", got)
	}
}
