package spiral

import "fmt"

// TraceHeading titles the progression diagram in a recap body.
const TraceHeading = "Iterative Progression Trace"

const traceDiagram = `[Start] ──► [Foundation η=0.70] ──► [Connection η=0.82] ──► [Placement η=0.89]
          │                        │                       │
          └─ depth: 2 ─────────────┴─ +3 assoc ───────────┴─ facts slotted
[Polish η=0.91] ──► [Action η=0.92] ──► [Synthesis η=0.93]
          │                        │
          └─ pruned bloat ──────────┴─ actionable + seal
Converged ────────────────────────────────────────────────► η=%.2f`

// Trace draws the routine progression ending at the final convergence.
func Trace(convergence float64) string {
	return fmt.Sprintf(traceDiagram, convergence)
}
