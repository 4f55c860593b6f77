package spiral

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// pieInputRunes is how much of the input is folded into a derived seed.
const pieInputRunes = 100

// PIESeed derives the mnemonic seed for a recap that has none.
func PIESeed(title string, motifs []string, input string) []byte {
	return []byte(fmt.Sprintf("%s: %s - %s", title, strings.Join(motifs, " "), truncateRunes(input, pieInputRunes)))
}

// EncodePIE renders a seed as the pie_vector frontmatter value.
func EncodePIE(seed []byte) string {
	return base64.StdEncoding.EncodeToString(seed)
}

// DecodePIE recovers the seed stored in a pie_vector value.
func DecodePIE(vector string) ([]byte, error) {
	seed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(vector))
	if err != nil {
		return nil, fmt.Errorf("invalid pie vector: %w", err)
	}
	return seed, nil
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
