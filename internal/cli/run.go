package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greylang/greyc/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Seed      uint64
	MaxEvents int
	Spacing   int
	Database  string
}

// RunResult is the run command's JSON payload.
type RunResult struct {
	Program string                  `json:"program"`
	RunID   string                  `json:"run_id,omitempty"`
	Result  harness.ExecutionResult `json:"result"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <demo.cue>",
		Short: "Execute a demo program on the in-process engine",
		Long: `Execute a Grey demo program on the in-process lattice engine.

In text format the final stdout line is the reference-protocol JSON
object, so greyc run can stand in for the C++ reference binary in a
parity check. With --db the run is recorded in the ledger.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args[0], cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 42, "injection seed")
	cmd.Flags().IntVar(&opts.MaxEvents, "max-events", 1000, "event cap for the run loop")
	cmd.Flags().IntVar(&opts.Spacing, "spacing", 1, "grid layout spacing")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to run-ledger SQLite database")

	return cmd
}

func runRun(opts *RunOptions, demoPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg := harness.Config{
		Seed:      opts.Seed,
		MaxEvents: opts.MaxEvents,
		Spacing:   opts.Spacing,
		DemoPath:  demoPath,
		Logger:    newLogger(formatter.GetErrWriter(), opts.Verbose),
	}

	local, err := harness.ExecuteLocal(cfg)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "run failed", err)
	}

	var runID string
	if opts.Database != "" {
		runID, err = recordRun(context.Background(), opts.Database, local.Program, local.Result, nil)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "recording run", err)
		}
		formatter.VerboseLog("Recorded run %s in %s", runID, opts.Database)
	}

	if formatter.Format == "json" {
		return formatter.Success(RunResult{
			Program: local.Program,
			RunID:   runID,
			Result:  local.Result,
		})
	}

	formatter.VerboseLog("Executed %s: %d events, logical time %d",
		local.Program, local.Result.EventsProcessed, local.Result.CurrentTime)

	line, err := harness.ProtocolLine(local.Result)
	if err != nil {
		return WrapExitError(ExitCommandError, "rendering protocol line", err)
	}
	fmt.Fprintln(formatter.Writer, line)
	return nil
}
