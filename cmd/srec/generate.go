package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aretw0/srec"
	"github.com/aretw0/srec/pkg/adapters/fs"
	"github.com/aretw0/srec/pkg/core"
)

const (
	defaultTitle = "Session Recap"
	previewLines = 20
)

// generateFlags are shared by the root command, generate and resume.
type generateFlags struct {
	title       string
	inputText   string
	inputFile   string
	motifs      []string
	convergence float64
	output      string
	category    string
	notes       string
	commit      bool
	message     string

	set *pflag.FlagSet
}

func (f *generateFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	f.set = fl
	fl.StringVar(&f.title, "title", defaultTitle, "Title of the recap")
	fl.StringVar(&f.inputText, "input-text", "", "Conversation text to recap")
	fl.StringVar(&f.inputFile, "input-file", "", "Read the conversation from a file (- for stdin)")
	fl.StringSliceVar(&f.motifs, "motifs", nil, "Override motifs (repeatable or comma separated)")
	fl.Float64Var(&f.convergence, "convergence", 0, "Override convergence in [0,1] (default: computed)")
	fl.StringVar(&f.output, "output", "", "Output path (structured name if omitted)")
	fl.StringVar(&f.category, "category", fs.DefaultCategory, "Category prefix for filename and subdir (e.g. Grok, Claude)")
	fl.StringVar(&f.notes, "notes", "", "Notes column for the gains log")
	fl.BoolVar(&f.commit, "commit", false, "Commit the recap to Git (initializes the archive repository)")
	fl.StringVarP(&f.message, "message", "m", "", "Commit message (with --commit)")
}

// request turns the flags into a core.Request. Unset title and motifs
// stay empty so a resume can inherit them.
func (f *generateFlags) request(in io.Reader) (core.Request, error) {
	text := f.inputText
	if f.inputFile != "" {
		data, err := readInput(f.inputFile, in)
		if err != nil {
			return core.Request{}, err
		}
		text = string(data)
	}

	req := core.Request{
		InputText: text,
		Category:  f.category,
		Notes:     f.notes,
		Output:    f.output,
	}
	if f.set.Changed("title") {
		req.Title = f.title
	}
	if f.set.Changed("motifs") {
		req.Motifs = cleanMotifs(f.motifs)
	}
	if f.set.Changed("convergence") {
		c := f.convergence
		req.Convergence = &c
	}
	return req, nil
}

// options returns the archive options implied by the flags.
func (f *generateFlags) options() []srec.Option {
	if f.commit {
		return []srec.Option{srec.WithVersioning(true)}
	}
	return nil
}

func (f *generateFlags) context(ctx context.Context) context.Context {
	if f.commit && f.message != "" {
		return context.WithValue(ctx, core.ChangeReasonKey, f.message)
	}
	return ctx
}

func readInput(path string, in io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(in)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

func cleanMotifs(raw []string) []string {
	motifs := make([]string, 0, len(raw))
	for _, m := range raw {
		if m = strings.TrimSpace(m); m != "" {
			motifs = append(motifs, m)
		}
	}
	return motifs
}

func newGenerateCmd(a *app) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a recap from conversation text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a, f)
		},
	}
	f.bind(cmd)
	return cmd
}

func runGenerate(cmd *cobra.Command, a *app, f *generateFlags) error {
	req, err := f.request(cmd.InOrStdin())
	if err != nil {
		return err
	}
	if req.Title == "" {
		req.Title = defaultTitle
	}

	svc, err := a.service(f.options()...)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	_, stored, err := svc.Generate(f.context(cmd.Context()), req)
	if err != nil {
		return err
	}
	return printStored(cmd.OutOrStdout(), stored)
}

// printStored reports the written artifacts with a preview of the recap.
func printStored(w io.Writer, stored core.Stored) error {
	fmt.Fprintf(w, "Generated: %s\n", stored.Path)

	data, err := os.ReadFile(stored.Path)
	if err != nil {
		return fmt.Errorf("failed to read back recap: %w", err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > previewLines {
		lines = lines[:previewLines]
	}
	fmt.Fprintf(w, "\nPreview (first %d lines):\n\n", previewLines)
	fmt.Fprintln(w, strings.Join(lines, "\n"))

	fmt.Fprintf(w, "Companion generated: %s\n", stored.CompanionPath)
	if stored.LogPath != "" {
		fmt.Fprintf(w, "Gains log updated: %s\n", stored.LogPath)
	}
	return nil
}
