package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/aretw0/srec/pkg/core"
	"github.com/aretw0/srec/pkg/spiral"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	metaStyle  = lipgloss.NewStyle().Faint(true)
)

const showWrap = 80

func newShowCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Render a recap in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.reader()
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			loaded, err := svc.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("error loading .srec: %w", err)
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, loaded.FullBody)
				return nil
			}

			fmt.Fprintln(out, titleStyle.Render(loaded.Title(core.DefaultTitle)))
			fmt.Fprintln(out, metaStyle.Render(headerLine(loaded)))

			rendered, err := renderMarkdown(loaded.FullBody)
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown body without rendering")
	return cmd
}

func headerLine(l core.Loaded) string {
	parts := []string{l.Convergence}
	if date, ok := l.Metadata["date"].(string); ok && date != "" {
		parts = append(parts, date)
	}
	if len(l.KeyMotifs) > 0 {
		parts = append(parts, strings.Join(l.KeyMotifs, ", "))
	}
	return strings.Join(parts, " · ")
}

// renderMarkdown renders body for the terminal. The trace diagram is kept
// verbatim in a code block.
func renderMarkdown(body string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(showWrap),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := renderer.Render(fenceTrace(body))
	if err != nil {
		return "", fmt.Errorf("failed to render recap: %w", err)
	}
	return out, nil
}

func fenceTrace(body string) string {
	heading := "## " + spiral.TraceHeading + "\n"
	idx := strings.Index(body, heading)
	if idx == -1 {
		return body
	}
	trace := strings.TrimRight(body[idx+len(heading):], "\n")
	return body[:idx+len(heading)] + "```\n" + trace + "\n```\n"
}
