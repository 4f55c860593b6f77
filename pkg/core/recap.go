// Package core holds the recap domain: the .srec model, the repository
// contract and the service that generates, loads and resumes recaps.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/srec/pkg/spiral"
)

// FormatVersion is written to the version key of every recap.
const FormatVersion = "3.1"

// DateLayout formats the date key.
const DateLayout = "2006-01-02 15:04 MST"

// convergencePrefix precedes the score in the convergence key.
const convergencePrefix = "η ≈ "

// RequiredKeys must be present in a recap's frontmatter. Missing keys are
// reported but do not fail a load.
var RequiredKeys = []string{"title", "version", "convergence", "pie_vector", "key_motifs"}

// Metadata represents the raw frontmatter of a loaded recap.
type Metadata map[string]any

// Frontmatter is the ordered header of a .srec file.
type Frontmatter struct {
	Title       string   `yaml:"title" json:"title"`
	Date        string   `yaml:"date" json:"date"`
	Version     string   `yaml:"version" json:"version"`
	Convergence string   `yaml:"convergence" json:"convergence"`
	PIEVector   string   `yaml:"pie_vector" json:"pie_vector"`
	KeyMotifs   []string `yaml:"key_motifs" json:"key_motifs"`
	SRTMode     bool     `yaml:"srt_mode" json:"srt_mode"`
	InputLength int      `yaml:"input_length" json:"input_length"`
}

// Recap is a generated session continuity file.
type Recap struct {
	ID          string // Archive-relative path once stored
	Frontmatter Frontmatter
	Sections    []spiral.Section
	Trace       string
	Convergence float64

	// Storage hints carried from the request.
	Category string
	Notes    string
	Output   string
	RunID    string
}

// Body renders the routine sections followed by the progression trace.
func (r Recap) Body() string {
	parts := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		parts = append(parts, s.Markdown())
	}
	return strings.Join(parts, "\n\n") + "\n\n## " + spiral.TraceHeading + "\n" + r.Trace
}

// Seal returns the poetic seal line of the Synthesis section, if any.
func (r Recap) Seal() string {
	for _, s := range r.Sections {
		if s.Routine == spiral.Synthesis {
			return FindSeal(s.Markdown())
		}
	}
	return ""
}

// Loaded is a recap read back from disk.
type Loaded struct {
	ID          string   `json:"id"`
	Metadata    Metadata `json:"metadata"`
	PIEVector   string   `json:"pie_vector"`
	KeyMotifs   []string `json:"key_motifs"`
	PoeticSeal  string   `json:"poetic_seal"`
	Convergence string   `json:"convergence"`
	FullBody    string   `json:"full_body"`
	Missing     []string `json:"missing,omitempty"`
}

// Title returns the recap title or fallback when none was stored.
func (l Loaded) Title(fallback string) string {
	if t, ok := l.Metadata["title"].(string); ok && t != "" {
		return t
	}
	return fallback
}

// Entry summarizes an archived recap for listings.
type Entry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Convergence string   `json:"convergence"`
	KeyMotifs   []string `json:"key_motifs"`
}

// Stored reports where a recap and its artifacts were written.
type Stored struct {
	ID            string `json:"id"`
	Path          string `json:"path"`
	CompanionPath string `json:"companion_path"`
	LogPath       string `json:"log_path,omitempty"`
}

// FormatConvergence renders the convergence key value.
func FormatConvergence(c float64) string {
	return fmt.Sprintf("%s%.2f", convergencePrefix, c)
}

// ParseConvergence reads a convergence key value back into a number.
func ParseConvergence(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), strings.TrimSpace(convergencePrefix)))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FindSeal returns the last line of body that carries the poetic seal.
// Bodies without a Synthesis section have no seal.
func FindSeal(body string) string {
	if !strings.Contains(body, "Synthesis Routine") {
		return ""
	}
	lines := strings.Split(body, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], spiral.SealPrefix) || strings.Contains(lines[i], spiral.SealOpening) {
			return strings.TrimSpace(lines[i])
		}
	}
	return ""
}
