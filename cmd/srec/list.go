package main

import (
	"encoding/json"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/srec/pkg/core"
)

func newListCmd(a *app) *cobra.Command {
	var (
		listJSON       bool
		pattern        string
		minConvergence float64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the recaps in the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pattern != "" && !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("invalid pattern: %s", pattern)
			}

			svc, err := a.reader()
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}

			entries, err := svc.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list recaps: %w", err)
			}

			byConvergence := cmd.Flags().Changed("min-convergence")
			filtered := make([]core.Entry, 0, len(entries))
			for _, e := range entries {
				if pattern != "" {
					if ok, _ := doublestar.Match(pattern, e.ID); !ok {
						continue
					}
				}
				if byConvergence {
					if v, ok := core.ParseConvergence(e.Convergence); !ok || v < minConvergence {
						continue
					}
				}
				filtered = append(filtered, e)
			}

			out := cmd.OutOrStdout()
			if listJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(filtered)
			}

			for _, e := range filtered {
				fmt.Fprintf(out, "%s\t%s\t%s\n", e.ID, e.Convergence, e.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Only list IDs matching a doublestar pattern (e.g. conversation/**)")
	cmd.Flags().Float64Var(&minConvergence, "min-convergence", 0, "Only list recaps whose convergence is at least this value")
	return cmd
}
