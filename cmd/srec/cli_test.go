package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/srec/pkg/core"
)

var testNow = func() time.Time { return time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC) }

// execute runs the CLI against a fresh command tree.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&app{now: testNow})
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

const transcript = "We discussed the spiral method. The spiral keeps memory across resets. Memory is the anchor."

func TestGenerate(t *testing.T) {
	base := t.TempDir()

	out, _, err := execute(t, "", "--base-dir", base, "--title", "First Session", "--input-text", transcript)
	require.NoError(t, err)

	path := filepath.Join(base, "grok", "Grok_2026-10-19_001_first-session.srec")
	assert.Contains(t, out, "Generated: "+path)
	assert.Contains(t, out, "Preview (first 20 lines):")
	assert.Contains(t, out, "title: First Session")
	assert.Contains(t, out, "Companion generated: "+filepath.Join(base, "grok", "Grok_2026-10-19_001_first-session_companion.txt"))
	assert.FileExists(t, path)
	assert.FileExists(t, filepath.Join(base, "gains_log.md"))

	t.Run("Subcommand With Overrides", func(t *testing.T) {
		out, _, err := execute(t, "", "generate", "--base-dir", base,
			"--category", "claude",
			"--motifs", "Anchor,Drift", "--motifs", "Seal",
			"--convergence", "0.9",
			"--notes", "override run",
		)
		require.NoError(t, err)

		path := filepath.Join(base, "conversation", "Claude_2026-10-19_001_session-recap.srec")
		assert.Contains(t, out, "Generated: "+path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		text := string(data)
		assert.Contains(t, text, "convergence: η ≈ 0.90")
		assert.Contains(t, text, "- Anchor\n")
		assert.Contains(t, text, "Coils carry Anchor through Drift—Seal seeds bloom")
	})

	t.Run("Empty Input Warns", func(t *testing.T) {
		_, errOut, err := execute(t, "", "generate", "--base-dir", base, "--title", "Blank")
		require.NoError(t, err)
		assert.Contains(t, errOut, "no input text provided")
	})

	t.Run("Input From Stdin", func(t *testing.T) {
		out, _, err := execute(t, transcript, "generate", "--base-dir", base, "--title", "Piped", "--input-file", "-")
		require.NoError(t, err)
		assert.Contains(t, out, "Grok_2026-10-19_")
		assert.Contains(t, out, "_piped.srec")
	})

	t.Run("Invalid Convergence", func(t *testing.T) {
		_, _, err := execute(t, "", "--base-dir", base, "--convergence", "1.5")
		assert.ErrorIs(t, err, core.ErrInvalidConvergence)
	})
}

func TestLoadAndResume(t *testing.T) {
	base := t.TempDir()
	_, _, err := execute(t, "", "--base-dir", base, "--title", "Origin", "--input-text", transcript)
	require.NoError(t, err)
	id := "grok/Grok_2026-10-19_001_origin.srec"

	t.Run("Load Flag", func(t *testing.T) {
		out, _, err := execute(t, "", "--base-dir", base, "--load", id)
		require.NoError(t, err)
		assert.Contains(t, out, "=== Bootstrap Prompt for New Session ===")
		assert.Contains(t, out, "- Key motifs: Spiral, Memory, Discussed, Method, Keeps")
		assert.Contains(t, out, "- Poetic seal: - Poetic Seal: Coils carry Spiral through Memory")
	})

	t.Run("Load Command By Path", func(t *testing.T) {
		out, _, err := execute(t, "", "load", filepath.Join(base, id))
		require.NoError(t, err)
		assert.Contains(t, out, "- Last convergence: η ≈")
	})

	t.Run("Load Missing Fails", func(t *testing.T) {
		_, errOut, err := execute(t, "", "--base-dir", base, "--load", "nope.srec")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.Empty(t, errOut)
	})

	t.Run("Resume", func(t *testing.T) {
		out, _, err := execute(t, "", "--base-dir", base, "--resume-from", id, "--input-text", "Fresh notes on drift.")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Resuming from previous session:\n"))
		assert.Contains(t, out, "Generated: "+filepath.Join(base, "grok", "Grok_2026-10-19_002_continued-origin.srec"))
	})

	t.Run("Resume Command Keeps Explicit Title", func(t *testing.T) {
		out, _, err := execute(t, "", "resume", id, "--base-dir", base, "--title", "Part Three")
		require.NoError(t, err)
		assert.Contains(t, out, "_003_part-three.srec")
	})

	t.Run("Resume Missing Fails", func(t *testing.T) {
		_, _, err := execute(t, "", "--base-dir", base, "--resume-from", "missing.srec")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load resume file")
	})
}

func TestListShowLog(t *testing.T) {
	base := t.TempDir()
	for _, args := range [][]string{
		{"--title", "Alpha", "--input-text", transcript},
		{"--title", "Beta", "--input-text", transcript, "--category", "Claude"},
	} {
		_, _, err := execute(t, "", append([]string{"--base-dir", base}, args...)...)
		require.NoError(t, err)
	}

	t.Run("List", func(t *testing.T) {
		out, _, err := execute(t, "", "list", "--base-dir", base)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "conversation/Claude_2026-10-19_001_beta.srec\t"))
		assert.True(t, strings.HasSuffix(lines[1], "\tAlpha"))
	})

	t.Run("List JSON With Pattern", func(t *testing.T) {
		out, _, err := execute(t, "", "list", "--base-dir", base, "--json", "--pattern", "grok/**")
		require.NoError(t, err)

		var entries []core.Entry
		require.NoError(t, json.Unmarshal([]byte(out), &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "Alpha", entries[0].Title)
	})

	t.Run("List Min Convergence", func(t *testing.T) {
		scored := t.TempDir()
		for _, c := range []string{"0.75", "0.92"} {
			_, _, err := execute(t, "", "--base-dir", scored, "--title", "Score "+c, "--convergence", c)
			require.NoError(t, err)
		}

		out, _, err := execute(t, "", "list", "--base-dir", scored, "--min-convergence", "0.9")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 1)
		assert.True(t, strings.HasSuffix(lines[0], "\tScore 0.92"))
	})

	t.Run("Invalid Pattern", func(t *testing.T) {
		_, _, err := execute(t, "", "list", "--base-dir", base, "--pattern", "[")
		assert.Error(t, err)
	})

	t.Run("Show Raw", func(t *testing.T) {
		out, _, err := execute(t, "", "show", "--base-dir", base, "--raw", "grok/Grok_2026-10-19_001_alpha.srec")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "## Foundation Routine (Initial Understanding)\n"))
		assert.Contains(t, out, "## Iterative Progression Trace")
	})

	t.Run("Show Rendered", func(t *testing.T) {
		out, _, err := execute(t, "", "show", "--base-dir", base, "grok/Grok_2026-10-19_001_alpha")
		require.NoError(t, err)
		assert.Contains(t, out, "Alpha")
		assert.Contains(t, out, "Foundation Routine")
		assert.Contains(t, out, "Converged")
	})

	t.Run("Log", func(t *testing.T) {
		out, _, err := execute(t, "", "log", "--base-dir", base)
		require.NoError(t, err)
		assert.Contains(t, out, "| Date | File | Convergence | Motifs | Input Size | Provenance | Notes |")
		assert.Contains(t, out, "Claude_2026-10-19_001_beta.srec")
	})

	t.Run("Log Missing", func(t *testing.T) {
		_, _, err := execute(t, "", "log", "--base-dir", t.TempDir())
		assert.Error(t, err)
	})
}

func TestBatchDeleteStatus(t *testing.T) {
	base := t.TempDir()
	inputs := t.TempDir()
	for name, text := range map[string]string{
		"chat_one.txt":        "Coils and memory. Memory and coils.",
		"nested/chat_two.txt": "Drift resets the spiral.",
		"skip.md":             "not a transcript",
	} {
		p := filepath.Join(inputs, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(text), 0644))
	}

	out, _, err := execute(t, "", "batch", "--base-dir", base, filepath.Join(inputs, "**", "*.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, "_chat-one.srec (from ")
	assert.Contains(t, out, "_chat-two.srec (from ")
	assert.Equal(t, 2, strings.Count(out, "Generated: "))

	_, _, err = execute(t, "", "batch", "--base-dir", base, filepath.Join(inputs, "*.none"))
	assert.Error(t, err)

	t.Run("Rejects Zero Jobs", func(t *testing.T) {
		target := t.TempDir()
		done := make(chan error, 1)
		go func() {
			_, _, err := execute(t, "", "batch", "-j", "0", "--base-dir", target, filepath.Join(inputs, "*.txt"))
			done <- err
		}()
		select {
		case err := <-done:
			require.Error(t, err)
			assert.Contains(t, err.Error(), "--jobs")
		case <-time.After(5 * time.Second):
			t.Fatal("batch -j 0 did not return")
		}
	})

	t.Run("Status", func(t *testing.T) {
		out, _, err := execute(t, "", "status", "--base-dir", base)
		require.NoError(t, err)

		var report struct {
			Version string `json:"version"`
			Recaps  int    `json:"recaps"`
			Service struct {
				RepositoryType string `json:"repository_type"`
				Repository     struct {
					ReadOnly bool `json:"read_only"`
				} `json:"repository"`
			} `json:"service"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, 2, report.Recaps)
		assert.Equal(t, "archive", report.Service.RepositoryType)
		assert.True(t, report.Service.Repository.ReadOnly)
		assert.NotEmpty(t, report.Version)
	})

	t.Run("Delete", func(t *testing.T) {
		listOut, _, err := execute(t, "", "list", "--base-dir", base)
		require.NoError(t, err)
		id := strings.SplitN(strings.Split(strings.TrimSpace(listOut), "\n")[0], "\t", 2)[0]

		out, _, err := execute(t, "", "delete", "--base-dir", base, id)
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted: "+id)
		assert.NoFileExists(t, filepath.Join(base, filepath.FromSlash(id)))

		_, _, err = execute(t, "", "delete", "--base-dir", base, id)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "srec version "))
}

func TestRun_ReportsErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run([]string{"load", filepath.Join(t.TempDir(), "missing.srec")}, strings.NewReader(""), &out, &errOut)
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "Error: ")
}
