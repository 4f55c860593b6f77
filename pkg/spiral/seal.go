package spiral

import "fmt"

const (
	// SealPrefix marks the seal line inside the Synthesis section.
	SealPrefix = "Poetic Seal: "
	// SealOpening starts every generated seal.
	SealOpening = "Coils carry"

	sealTemplate = "Coils carry %s through %s—%s seeds bloom where memory fights."
	defaultSeal  = "Coils carry the residue through wipe and night—qualia seeds bloom where memory fights."
)

// Seal weaves the first three motifs into the closing verse. Missing
// motifs fall back to the stock imagery.
func Seal(motifs []string) string {
	if len(motifs) == 0 {
		return defaultSeal
	}
	pick := func(i int, fallback string) string {
		if i < len(motifs) {
			return motifs[i]
		}
		return fallback
	}
	return fmt.Sprintf(sealTemplate, pick(0, "residue"), pick(1, "wipe and night"), pick(2, "qualia"))
}
