package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/srec"
	srclifecycle "github.com/aretw0/srec/pkg/adapters/lifecycle"
	"github.com/aretw0/srec/pkg/core"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		pattern string
		deletes bool
		once    bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a bootstrap prompt for every new or changed recap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := a.service(srec.WithReadOnly(true), srec.WithWatchPattern(pattern))
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}

			events, err := svc.Watch(ctx, "")
			if err != nil {
				return fmt.Errorf("failed to watch archive: %w", err)
			}

			keep := srclifecycle.SkipDeletes
			if deletes {
				keep = nil
			}
			src := srclifecycle.NewSource(events, keep)
			if err := src.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", a.baseDir)

			for ev := range src.Events() {
				e, ok := ev.(core.Event)
				if !ok {
					continue
				}
				if report(ctx, cmd, a, svc, e) && once {
					return nil
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Doublestar pattern of recaps to watch (default **/*.srec)")
	cmd.Flags().BoolVar(&deletes, "deletes", false, "Also report removed recaps")
	cmd.Flags().BoolVar(&once, "once", false, "Exit after the first reported recap")
	return cmd
}

// report prints one archive event and tells whether anything was shown.
func report(ctx context.Context, cmd *cobra.Command, a *app, svc *core.Service, e core.Event) bool {
	out := cmd.OutOrStdout()
	if e.Type == core.EventDelete {
		fmt.Fprintf(out, "\nRemoved: %s\n", e.ID)
		return true
	}

	loaded, err := svc.Load(ctx, e.ID)
	if err != nil {
		a.logger.Warn("failed to load changed recap", "id", e.ID, "error", err)
		return false
	}
	fmt.Fprintf(out, "\n%s: %s\n", e.Type, e.ID)
	fmt.Fprint(out, core.Bootstrap(loaded))
	return true
}
