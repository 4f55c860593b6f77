// Package srec is the composition root for Spiral Recap.
//
// It turns a conversation transcript into a .srec continuity file: YAML
// frontmatter (title, date, convergence, PIE vector, key motifs) followed
// by six chained routine sections, a poetic seal and a progression trace.
// Each run also writes a plain-text companion and appends a row to the
// archive's gains log. A stored recap can later be loaded into a
// bootstrap prompt or resumed into a new recap that keeps its PIE seed.
//
// The archive layout is
//
//	<base>/grok/Grok_2026-10-19_001_session-recap.srec
//	<base>/grok/Grok_2026-10-19_001_session-recap_companion.txt
//	<base>/conversation/Claude_2026-10-19_001_deep-dive.srec
//	<base>/gains_log.md
//
// Usage:
//
//	svc, err := srec.New("./examples", srec.WithLogger(logger))
//
//	recap, stored, err := svc.Generate(ctx, srec.Request{
//		Title:     "Session Recap",
//		InputText: transcript,
//	})
//
//	loaded, err := svc.Load(ctx, stored.ID)
//	fmt.Print(srec.Bootstrap(loaded))
package srec
