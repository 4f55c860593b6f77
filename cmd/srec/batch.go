package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/srec/pkg/adapters/fs"
	"github.com/aretw0/srec/pkg/core"
)

const defaultBatchJobs = 4

func newBatchCmd(a *app) *cobra.Command {
	var (
		category string
		notes    string
		jobs     int
	)

	cmd := &cobra.Command{
		Use:   "batch <glob>...",
		Short: "Generate one recap per matching transcript file",
		Long: `batch expands each doublestar glob (e.g. "transcripts/**/*.txt") and
generates a recap for every matching file, titled after the file name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 1 {
				return fmt.Errorf("invalid --jobs %d: must be at least 1", jobs)
			}
			files, err := expandGlobs(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no input files match %s", strings.Join(args, " "))
			}

			svc, err := a.service()
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}

			results := make([]core.Stored, len(files))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for i, file := range files {
				g.Go(func() error {
					data, err := os.ReadFile(file)
					if err != nil {
						return fmt.Errorf("failed to read %s: %w", file, err)
					}
					_, stored, err := svc.Generate(ctx, core.Request{
						Title:     titleFromFile(file),
						InputText: string(data),
						Category:  category,
						Notes:     notes,
					})
					if err != nil {
						return fmt.Errorf("%s: %w", file, err)
					}
					results[i] = stored
					return nil
				})
			}
			err = g.Wait()

			out := cmd.OutOrStdout()
			for i, stored := range results {
				if stored.Path != "" {
					fmt.Fprintf(out, "Generated: %s (from %s)\n", stored.Path, files[i])
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&category, "category", fs.DefaultCategory, "Category prefix for every recap")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes column for the gains log")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", defaultBatchJobs, "Recaps generated concurrently")
	return cmd
}

// expandGlobs returns the sorted, de-duplicated files matched by patterns.
func expandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", p, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// titleFromFile derives a recap title from a transcript name
// ("chat_2026-10-19.txt" -> "chat 2026-10-19").
func titleFromFile(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimSpace(strings.ReplaceAll(stem, "_", " "))
}
