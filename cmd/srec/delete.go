package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/srec"
)

func newDeleteCmd(a *app) *cobra.Command {
	var commit bool

	cmd := &cobra.Command{
		Use:   "delete <file>",
		Short: "Remove a recap and its companion (the gains log keeps its row)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []srec.Option
			if commit {
				opts = append(opts, srec.WithVersioning(true))
			}
			svc, err := a.service(opts...)
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete recap: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&commit, "commit", false, "Record the removal in Git")
	return cmd
}
