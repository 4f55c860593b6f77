package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/srec/pkg/core"
)

func newResumeCmd(a *app) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "resume <file>",
		Short: "Continue a previous recap, reusing its PIE seed and motifs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResume(cmd, a, f, args[0])
		},
	}
	f.bind(cmd)
	return cmd
}

func runResume(cmd *cobra.Command, a *app, f *generateFlags, id string) error {
	req, err := f.request(cmd.InOrStdin())
	if err != nil {
		return err
	}

	svc, err := a.service(f.options()...)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	prev, _, stored, err := svc.Resume(f.context(cmd.Context()), id, req)
	if err != nil {
		return fmt.Errorf("failed to resume: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Resuming from previous session:")
	fmt.Fprint(w, core.Bootstrap(prev))
	return printStored(w, stored)
}
