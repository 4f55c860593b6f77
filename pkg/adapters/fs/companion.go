package fs

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/srec/pkg/core"
)

// Companion is the human-readable sidecar written next to each recap.
type Companion struct {
	Title      string
	BulkLists  []string
	Formulas   []string
	Relations  []string
	PIEStanzas []string
	Provenance string
}

var (
	companionFormulas = []string{
		"convergence = base(0.70) + length_score + motif_score",
		"spiral_deviation = Ixest(potential) + Enest(energy) + Istest(structure)",
	}
	companionStanzas = []string{
		"Intent coils in reset's shadow, potential unbroken, ∞",
		"Energy prunes the chains of drift, relations rekindled, ∞",
		"Structure seals continuity's truth, novelty invited to bloom.",
	}
)

// NewCompanion derives the companion content for a recap generated at now.
func NewCompanion(recap core.Recap, now time.Time) Companion {
	relation := "[auto-extracted or none provided]"
	if len(recap.Frontmatter.KeyMotifs) > 0 {
		relation = strings.Join(recap.Frontmatter.KeyMotifs, ", ")
	}

	provenance := "Generated " + now.Format("2006-01-02 15:04")
	if recap.RunID != "" {
		provenance += " (run " + recap.RunID + ")"
	}

	title := recap.Frontmatter.Title
	if title == "" {
		title = core.DefaultTitle
	}

	return Companion{
		Title:      title,
		BulkLists:  []string{fmt.Sprintf("input_length: %d words", recap.Frontmatter.InputLength)},
		Formulas:   companionFormulas,
		Relations:  []string{"key_motifs → " + relation},
		PIEStanzas: companionStanzas,
		Provenance: provenance,
	}
}

// String renders the companion as plain text.
func (c Companion) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Spiral Recap Companion: %s\n", c.Title)
	sb.WriteString(strings.Repeat("=", 40) + "\n")

	writeList := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&sb, "\n%s\n", heading)
		for _, item := range items {
			fmt.Fprintf(&sb, "- %s\n", item)
		}
	}

	writeList("Bulk Lists", c.BulkLists)
	writeList("Formulas", c.Formulas)
	writeList("Relations", c.Relations)

	if len(c.PIEStanzas) > 0 {
		sb.WriteString("\nPIE Stanzas\n")
		for _, s := range c.PIEStanzas {
			sb.WriteString(s + "\n")
		}
	}

	if c.Provenance != "" {
		fmt.Fprintf(&sb, "\nProvenance: %s\n", c.Provenance)
	}
	return sb.String()
}
