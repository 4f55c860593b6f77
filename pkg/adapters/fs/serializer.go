package fs

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/srec/pkg/core"
	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Serializer defines how a recap is written and read back.
type Serializer interface {
	// Parse reads a recap file.
	Parse(r io.Reader) (core.Loaded, error)
	// Serialize renders a recap file.
	Serialize(recap core.Recap) ([]byte, error)
}

// SrecSerializer handles .srec files: YAML frontmatter followed by the
// markdown body.
type SrecSerializer struct{}

// NewSrecSerializer creates a new .srec serializer.
func NewSrecSerializer() *SrecSerializer {
	return &SrecSerializer{}
}

// Serialize renders "---\n<yaml>---\n\n<body>".
func (s *SrecSerializer) Serialize(recap core.Recap) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(frontmatterDelimiter + "\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(recap.Frontmatter); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	buf.WriteString(frontmatterDelimiter + "\n\n")
	buf.WriteString(recap.Body())
	return buf.Bytes(), nil
}

// Parse splits the frontmatter from the body and extracts the continuity
// anchors. Missing required keys are reported in Loaded.Missing.
func (s *SrecSerializer) Parse(r io.Reader) (core.Loaded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Loaded{}, err
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return core.Loaded{}, core.ErrInvalidFormat
	}

	rest := content[len(frontmatterDelimiter):]
	end := strings.Index(rest, "\n"+frontmatterDelimiter)
	if end == -1 {
		return core.Loaded{}, core.ErrIncompleteFrontmatter
	}
	yamlData := rest[:end]
	body := strings.TrimSpace(rest[end+len(frontmatterDelimiter)+1:])

	metadata := make(core.Metadata)
	if err := yaml.Unmarshal([]byte(yamlData), &metadata); err != nil {
		return core.Loaded{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	var missing []string
	for _, k := range core.RequiredKeys {
		if _, ok := metadata[k]; !ok {
			missing = append(missing, k)
		}
	}

	return core.Loaded{
		Metadata:    metadata,
		PIEVector:   stringValue(metadata["pie_vector"]),
		KeyMotifs:   stringList(metadata["key_motifs"]),
		PoeticSeal:  core.FindSeal(body),
		Convergence: stringValue(metadata["convergence"]),
		FullBody:    body,
		Missing:     missing,
	}, nil
}

// stringValue renders scalar frontmatter values as text.
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// stringList accepts both YAML sequences and a lone scalar.
func stringList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, stringValue(item))
		}
		return out
	case []string:
		return t
	case nil:
		return []string{}
	default:
		return []string{stringValue(t)}
	}
}
