package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/srec"
	"github.com/aretw0/srec/pkg/core"
)

const defaultBaseDir = "examples"

// app carries the state shared by every command.
type app struct {
	verbose bool
	baseDir string
	logger  *slog.Logger
	now     func() time.Time
}

// service opens the archive for writing.
func (a *app) service(opts ...srec.Option) (*core.Service, error) {
	return srec.New(a.baseDir, a.options(opts)...)
}

// reader opens the archive read-only. A missing archive falls back to the
// working directory so loose .srec files can still be read.
func (a *app) reader() (*core.Service, error) {
	base := a.baseDir
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		base = "."
	}
	return srec.New(base, a.options([]srec.Option{srec.WithReadOnly(true)})...)
}

func (a *app) options(extra []srec.Option) []srec.Option {
	opts := []srec.Option{srec.WithLogger(a.logger)}
	if a.now != nil {
		opts = append(opts, srec.WithClock(a.now))
	}
	return append(opts, extra...)
}

func newRootCmd(a *app) *cobra.Command {
	gen := &generateFlags{}
	var loadPath, resumeFrom string

	cmd := &cobra.Command{
		Use:   "srec",
		Short: "Spiral Recap: session continuity files for AI conversations",
		Long: `srec turns a conversation transcript into a .srec continuity file
(YAML frontmatter, six chained routines, a poetic seal and a progression trace),
writes a companion text file and appends a row to the archive's gains log.

Without a subcommand it generates a recap; --load prints the bootstrap prompt of
an existing recap and --resume-from continues one. Without --base-dir the
nearest directory above the working directory holding gains_log.md or .srec/
is used, falling back to ./examples.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}

			opts := &slog.HandlerOptions{
				Level: level,
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
			slog.SetDefault(a.logger)

			if !cmd.Flags().Changed("base-dir") {
				if root, err := srec.FindRoot("."); err == nil {
					a.logger.Debug("using archive found above working directory", "path", root)
					a.baseDir = root
				}
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case resumeFrom != "":
				return runResume(cmd, a, gen, resumeFrom)
			case loadPath != "":
				return runLoad(cmd, a, loadPath)
			default:
				return runGenerate(cmd, a, gen)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&a.baseDir, "base-dir", defaultBaseDir, "Archive directory")

	gen.bind(cmd)
	cmd.Flags().StringVar(&loadPath, "load", "", "Load an existing .srec and print its bootstrap prompt")
	cmd.Flags().StringVar(&resumeFrom, "resume-from", "", "Resume from a previous .srec (reuses its PIE seed and motifs)")

	cmd.AddCommand(
		newGenerateCmd(a),
		newLoadCmd(a),
		newResumeCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newWatchCmd(a),
		newBatchCmd(a),
		newLogCmd(a),
		newStatusCmd(a),
		newDeleteCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out, errOut io.Writer) error {
	cmd := newRootCmd(&app{})
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return err
	}
	return nil
}
