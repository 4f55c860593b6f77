// Package spiral holds the recap analysis: motif extraction, the
// convergence score, the six chained routines, the poetic seal and the
// PIE vector encoding. It has no I/O.
package spiral
