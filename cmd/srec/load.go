package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/srec/pkg/core"
)

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Print the bootstrap prompt of an existing recap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, a, args[0])
		},
	}
}

func runLoad(cmd *cobra.Command, a *app, id string) error {
	svc, err := a.reader()
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	loaded, err := svc.Load(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("error loading .srec: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), core.Bootstrap(loaded))
	return nil
}
