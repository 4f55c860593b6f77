package spiral

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultMaxMotifs is the number of motifs kept when no limit is given.
	DefaultMaxMotifs = 5

	// NoMotifsDetected is returned for empty input.
	NoMotifsDetected = "[no motifs detected]"
	// NoStrongMotifs is returned when every word was filtered out.
	NoStrongMotifs = "[no strong motifs detected]"
)

// stopwords are dropped before counting.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "being": {}, "been": {},
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

func isStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// ExtractMotifs returns the most frequent meaningful words of text,
// capitalized, most frequent first. Ties keep first-occurrence order.
// A non-positive max falls back to DefaultMaxMotifs.
func ExtractMotifs(text string, max int) []string {
	if text == "" {
		return []string{NoMotifsDetected}
	}
	if max <= 0 {
		max = DefaultMaxMotifs
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(w) <= 2 || isStopword(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})

	motifs := make([]string, 0, max)
	for _, w := range ranked {
		motifs = append(motifs, capitalize(w))
		if len(motifs) >= max {
			break
		}
	}

	if len(motifs) == 0 {
		return []string{NoStrongMotifs}
	}
	return motifs
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToTitle(r)) + w[size:]
}
