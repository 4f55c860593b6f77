package core

import (
	"time"

	"github.com/aretw0/srec/pkg/spiral"
)

// DefaultTitle is used when a request carries no title.
const DefaultTitle = "Untitled Recap"

// Request describes a recap to generate.
//
// A nil Motifs slice asks for extraction from InputText; a non-nil empty
// slice means "no motifs". A nil Convergence is computed. A nil PIESeed
// is derived from the title, motifs and input.
type Request struct {
	Title       string
	InputText   string
	Motifs      []string
	Convergence *float64
	PIESeed     []byte

	Category string
	Notes    string
	Output   string
}

// Validate checks the request before any work is done.
func (r Request) Validate() error {
	if r.Convergence != nil && (*r.Convergence < 0 || *r.Convergence > 1) {
		return ErrInvalidConvergence
	}
	return nil
}

// Build runs the spiral over the request and assembles a Recap. now stamps
// the date key.
func Build(req Request, now time.Time) (Recap, error) {
	if err := req.Validate(); err != nil {
		return Recap{}, err
	}

	title := req.Title
	if title == "" {
		title = DefaultTitle
	}

	motifs := req.Motifs
	if motifs == nil {
		motifs = spiral.ExtractMotifs(req.InputText, spiral.DefaultMaxMotifs)
	}

	words := spiral.WordCount(req.InputText)

	var convergence float64
	if req.Convergence != nil {
		convergence = *req.Convergence
	} else {
		convergence = spiral.Convergence(words, len(motifs), spiral.DefaultMaxConvergence)
	}

	seed := req.PIESeed
	if seed == nil {
		seed = spiral.PIESeed(title, motifs, req.InputText)
	}

	return Recap{
		Frontmatter: Frontmatter{
			Title:       title,
			Date:        now.Format(DateLayout),
			Version:     FormatVersion,
			Convergence: FormatConvergence(convergence),
			PIEVector:   spiral.EncodePIE(seed),
			KeyMotifs:   motifs,
			SRTMode:     true,
			InputLength: words,
		},
		Sections:    spiral.RunRoutines(req.InputText, motifs),
		Trace:       spiral.Trace(convergence),
		Convergence: convergence,
		Category:    req.Category,
		Notes:       req.Notes,
		Output:      req.Output,
	}, nil
}
