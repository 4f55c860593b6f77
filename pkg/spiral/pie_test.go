package spiral

import (
	"strings"
	"testing"
)

func TestPIESeed(t *testing.T) {
	seed := PIESeed("Recap", []string{"Memory", "Coil"}, "hello")
	if string(seed) != "Recap: Memory Coil - hello" {
		t.Errorf("unexpected seed %q", seed)
	}

	long := strings.Repeat("é", 150)
	seed = PIESeed("T", nil, long)
	if got := strings.TrimPrefix(string(seed), "T:  - "); got != strings.Repeat("é", 100) {
		t.Errorf("expected input truncated to 100 runes, got %d bytes", len(got))
	}
}

func TestPIERoundTrip(t *testing.T) {
	seed := []byte("Intent coils in reset's shadow ∞")
	vector := EncodePIE(seed)

	got, err := DecodePIE(vector)
	if err != nil {
		t.Fatalf("DecodePIE failed: %v", err)
	}
	if string(got) != string(seed) {
		t.Errorf("round trip mismatch: %q", got)
	}

	if _, err := DecodePIE("not base64!!"); err == nil {
		t.Error("expected error for invalid vector")
	}
}

func TestTrace(t *testing.T) {
	trace := Trace(0.876)
	lines := strings.Split(trace, "\n")
	if !strings.HasSuffix(lines[len(lines)-1], "η=0.88") {
		t.Errorf("unexpected last line %q", lines[len(lines)-1])
	}
	if !strings.HasPrefix(trace, "[Start]") {
		t.Errorf("trace should start at [Start], got %q", lines[0])
	}
}
