package spiral

import (
	"fmt"
	"strings"
	"unicode"
)

// Routine names one stage of the recap spiral.
type Routine string

const (
	Foundation Routine = "Foundation Routine (Initial Understanding)"
	Connection Routine = "Connection Routine (Contextual Expansion)"
	Placement  Routine = "Placement Routine (Objective Slotting)"
	Polish     Routine = "Polish Routine (Refinement)"
	Action     Routine = "Action Routine (Application)"
	Synthesis  Routine = "Synthesis Routine (Verification)"
)

// Routines lists the six stages in the order they run.
var Routines = []Routine{Foundation, Connection, Placement, Polish, Action, Synthesis}

// maxSentences bounds how much of the base text a routine looks at.
const maxSentences = 8

// Section is the output of a single routine.
type Section struct {
	Routine Routine
	Content string
}

// Markdown renders the section as a level-two heading followed by its content.
func (s Section) Markdown() string {
	return fmt.Sprintf("## %s\n%s", s.Routine, s.Content)
}

// RunRoutines runs the six routines in order. Each routine summarizes the
// previous routine's output, so the spiral tightens as it goes.
func RunRoutines(input string, motifs []string) []Section {
	sections := make([]Section, 0, len(Routines))
	previous := ""
	for _, r := range Routines {
		content := Summarize(input, r, previous, motifs)
		sections = append(sections, Section{Routine: r, Content: content})
		previous = content
	}
	return sections
}

// Summarize produces the content of one routine. previous, when set,
// replaces input as the text being summarized.
func Summarize(input string, routine Routine, previous string, motifs []string) string {
	if input == "" && previous == "" {
		return "- [No input text provided]\n- Placeholder content."
	}

	base := previous
	if base == "" {
		base = input
	}
	sentences := SplitSentences(base)
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}

	switch routine {
	case Foundation:
		return "- Core anchors: " + strings.Join(motifs, ", ") +
			"\n- Sample start: " + strings.Join(window(sentences, 0, 2), " ")
	case Connection:
		first := ""
		if len(motifs) > 0 {
			first = motifs[0]
		}
		return "- Associations: " + strings.Join(window(sentences, 2, 4), " → ") +
			"\n- Tied to motifs: " + first
	case Placement:
		fact := "- [short base]"
		if len(sentences) > 4 {
			fact = sentences[4]
		}
		return "- Facts placed: " + fact +
			"\n- Referenced motifs: " + strings.Join(window(motifs, 0, 2), ", ")
	case Polish:
		essence := "- [empty]"
		if len(sentences) > 0 {
			essence = sentences[len(sentences)-1]
		}
		return "- Pruned essence: " + essence +
			"\n- Refined motifs: " + strings.Join(motifs, ", ")
	case Action:
		return "- Projected: resume with PIE seed.\n- Apply motifs: " + strings.Join(motifs, ", ")
	default:
		return "- Final verification.\n- " + SealPrefix + Seal(motifs)
	}
}

// SplitSentences splits text after '.', '!' or '?' when followed by
// whitespace. The terminator stays with its sentence.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	var (
		out   []string
		start int
	)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		out = append(out, string(runes[start:i+1]))
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	return append(out, string(runes[start:]))
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// window returns s[from:to] clamped to the slice bounds.
func window(s []string, from, to int) []string {
	if from > len(s) {
		from = len(s)
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
