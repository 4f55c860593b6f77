package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/srec/pkg/core"
)

// GainsLogName is the markdown table of every run, kept at the archive root.
const GainsLogName = "gains_log.md"

const gainsLogHeader = `# Spiral Recap Gains Log

| Date | File | Convergence | Motifs | Input Size | Provenance | Notes |
|------|------|-------------|--------|------------|------------|-------|
`

// GainsRow is one line of the gains log.
type GainsRow struct {
	Date        time.Time
	File        string
	Convergence float64
	MotifCount  int
	InputSize   int
	Provenance  string
	Notes       string
}

// NewGainsRow summarizes a stored recap.
func NewGainsRow(recap core.Recap, file string, now time.Time) GainsRow {
	provenance := NormalizeCategory(recap.Category)
	if recap.RunID != "" {
		provenance += " " + shortRunID(recap.RunID)
	}
	return GainsRow{
		Date:        now,
		File:        file,
		Convergence: recap.Convergence,
		MotifCount:  len(recap.Frontmatter.KeyMotifs),
		InputSize:   recap.Frontmatter.InputLength,
		Provenance:  provenance,
		Notes:       recap.Notes,
	}
}

// String renders the row as a markdown table line.
func (g GainsRow) String() string {
	return fmt.Sprintf("| %s | %s | %.2f | %d | %d | %s | %s |",
		g.Date.Format("2006-01-02 15:04"),
		cell(g.File),
		g.Convergence,
		g.MotifCount,
		g.InputSize,
		cell(g.Provenance),
		cell(g.Notes),
	)
}

// appendGainsRow adds a row, creating the log with its header if needed.
func appendGainsRow(path string, row GainsRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read gains log: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open gains log: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	if len(existing) == 0 {
		sb.WriteString(gainsLogHeader)
	} else if !strings.HasSuffix(string(existing), "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(row.String() + "\n")

	if _, err := f.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to append gains log: %w", err)
	}
	return nil
}

// cell escapes table separators and line breaks.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
