package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greylang/greyc/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// RunSummary is one ledger row in the trace listing.
type RunSummary struct {
	ID              string `json:"id"`
	CreatedAt       string `json:"created_at"`
	Program         string `json:"program"`
	Seed            uint64 `json:"seed"`
	EventsProcessed uint64 `json:"events_processed"`
	LogicalTime     uint64 `json:"logical_time"`
	ResultHash      string `json:"result_hash"`
	Parity          *bool  `json:"parity,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-id]",
		Short: "Inspect the run ledger",
		Long: `Inspect recorded runs in the ledger database.

Without an argument, lists the most recent runs. With a run id,
prints the full record including the final process states.

Examples:
  greyc trace --db ./greyc.db
  greyc trace --db ./greyc.db 0190c2e0-5b7a-7c3e-8f00-9a6b5d4c3b2a
  greyc trace --db ./greyc.db --limit 5 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runTraceGet(opts, args[0], cmd)
			}
			return runTraceList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run ledger (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list")

	return cmd
}

func runTraceList(opts *TraceOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening ledger", err)
	}
	defer st.Close()

	records, err := st.ListRuns(context.Background(), opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing runs", err)
	}

	if formatter.Format == "json" {
		summaries := make([]RunSummary, len(records))
		for i, rec := range records {
			summaries[i] = summarize(rec)
		}
		return formatter.Success(summaries)
	}

	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(formatter.Writer, "%s  %s  %s  seed=%d events=%d time=%d parity=%s\n",
			rec.ID, rec.CreatedAt, rec.Program,
			rec.Seed, rec.EventsProcessed, rec.LogicalTime, parityLabel(rec.Parity))
	}
	return nil
}

func runTraceGet(opts *TraceOptions, runID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening ledger", err)
	}
	defer st.Close()

	rec, err := st.GetRun(context.Background(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		_ = formatter.Error(ErrCodeDatabase, fmt.Sprintf("run %s not found", runID), nil)
		return NewExitError(ExitCommandError, "run not found")
	}
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading run", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(traceRecord(rec))
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s\n", rec.ID)
	fmt.Fprintf(w, "  created_at:        %s\n", rec.CreatedAt)
	fmt.Fprintf(w, "  program:           %s\n", rec.Program)
	fmt.Fprintf(w, "  seed:              %d\n", rec.Seed)
	fmt.Fprintf(w, "  max_events:        %d\n", rec.MaxEvents)
	fmt.Fprintf(w, "  spacing:           %d\n", rec.Spacing)
	fmt.Fprintf(w, "  runtime_processes: %d\n", rec.RuntimeProcesses)
	fmt.Fprintf(w, "  events_processed:  %d\n", rec.EventsProcessed)
	fmt.Fprintf(w, "  logical_time:      %d\n", rec.LogicalTime)
	fmt.Fprintf(w, "  execution_time_ns: %d\n", rec.ExecutionTimeNS)
	fmt.Fprintf(w, "  result_hash:       %s\n", rec.ResultHash)
	fmt.Fprintf(w, "  parity:            %s\n", parityLabel(rec.Parity))
	fmt.Fprintf(w, "  engine_version:    %s\n", rec.EngineVersion)
	fmt.Fprintf(w, "  ir_version:        %s\n", rec.IRVersion)
	if opts.Verbose {
		fmt.Fprintf(w, "  process_states:    %s\n", rec.ProcessStates)
	}
	return nil
}

// traceRecord is the full-record JSON payload for trace <run-id>.
type traceRecord struct {
	ID               string `json:"id"`
	CreatedAt        string `json:"created_at"`
	Program          string `json:"program"`
	Seed             uint64 `json:"seed"`
	MaxEvents        int    `json:"max_events"`
	Spacing          int    `json:"spacing"`
	RuntimeProcesses int    `json:"runtime_processes"`
	EventsProcessed  uint64 `json:"events_processed"`
	LogicalTime      uint64 `json:"logical_time"`
	ExecutionTimeNS  uint64 `json:"execution_time_ns"`
	ProcessStates    string `json:"process_states"`
	ResultHash       string `json:"result_hash"`
	Parity           *bool  `json:"parity,omitempty"`
	EngineVersion    string `json:"engine_version"`
	IRVersion        string `json:"ir_version"`
}

func summarize(rec store.RunRecord) RunSummary {
	return RunSummary{
		ID:              rec.ID,
		CreatedAt:       rec.CreatedAt,
		Program:         rec.Program,
		Seed:            rec.Seed,
		EventsProcessed: rec.EventsProcessed,
		LogicalTime:     rec.LogicalTime,
		ResultHash:      rec.ResultHash,
		Parity:          rec.Parity,
	}
}

func parityLabel(parity *bool) string {
	switch {
	case parity == nil:
		return "n/a"
	case *parity:
		return "ok"
	default:
		return "failed"
	}
}
