package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	// Extension is the recap file extension.
	Extension = ".srec"
	// CompanionSuffix is appended to a recap stem for its companion file.
	CompanionSuffix = "_companion.txt"

	// DefaultCategory is used when a recap names none.
	DefaultCategory = "Grok"

	grokSubdir         = "grok"
	conversationSubdir = "conversation"
	untitledSlug       = "untitled-recap"
	dayLayout          = "2006-01-02"
)

var (
	slugPattern = regexp.MustCompile(`[^a-z0-9]+`)
	seqPattern  = regexp.MustCompile(`_(\d{3,})_`)
)

// NormalizeCategory trims and title-cases a category ("claude" -> "Claude").
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return DefaultCategory
	}
	return titleCase(category)
}

// titleCase upper-cases the first letter of every word and lower-cases the rest.
func titleCase(s string) string {
	var sb strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		sb.WriteRune(r)
		prevLetter = false
	}
	return sb.String()
}

// Subdir picks the archive folder for a category. Grok recaps get their
// own folder; everything else shares "conversation".
func Subdir(category string) string {
	if strings.EqualFold(NormalizeCategory(category), DefaultCategory) {
		return grokSubdir
	}
	return conversationSubdir
}

// Slug turns a title into a filename-safe fragment.
func Slug(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return untitledSlug
	}
	return slug
}

// Stem builds "<Category>_<date>_<NNN>_<slug>".
func Stem(category string, day time.Time, seq int, title string) string {
	return fmt.Sprintf("%s_%s_%03d_%s", NormalizeCategory(category), day.Format(dayLayout), seq, Slug(title))
}

// NextSequence scans dir for recaps of the same category and day and
// returns the next free sequence number, starting at 1.
func NextSequence(dir, category string, day time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	prefix := fmt.Sprintf("%s_%s_", NormalizeCategory(category), day.Format(dayLayout))
	max := 0
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		m := seqPattern.FindStringSubmatch(name[len(prefix)-1:])
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max + 1, nil
}

// CompanionPath returns the companion file path for a recap path.
func CompanionPath(recapPath string) string {
	return strings.TrimSuffix(recapPath, filepath.Ext(recapPath)) + CompanionSuffix
}
