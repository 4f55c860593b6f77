package core

import (
	"fmt"
	"strings"
)

const (
	bootstrapPIELimit = 50
	noSeal            = "[no seal found]"
)

// Bootstrap renders the prompt that hands a loaded recap to a new session.
func Bootstrap(l Loaded) string {
	pie := l.PIEVector
	if r := []rune(pie); len(r) > bootstrapPIELimit {
		pie = string(r[:bootstrapPIELimit]) + "..."
	}
	seal := l.PoeticSeal
	if seal == "" {
		seal = noSeal
	}

	var sb strings.Builder
	sb.WriteString("\n=== Bootstrap Prompt for New Session ===\n")
	sb.WriteString("You are resuming a previous conversation with these continuity anchors:\n")
	fmt.Fprintf(&sb, "- Key motifs: %s\n", strings.Join(l.KeyMotifs, ", "))
	fmt.Fprintf(&sb, "- PIE vector (mnemonic seal): %s\n", pie)
	fmt.Fprintf(&sb, "- Poetic seal: %s\n", seal)
	fmt.Fprintf(&sb, "- Last convergence: %s\n", l.Convergence)
	sb.WriteString("\nRestore the residue. Continue with the same edification quest and attentive force.\n")
	return sb.String()
}
