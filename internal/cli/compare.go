package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/greylang/greyc/internal/config"
	"github.com/greylang/greyc/internal/harness"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	Demo       string
	Seed       uint64
	MaxEvents  int
	Spacing    int
	CppExe     string
	KernelDir  string
	BuildDir   string
	Scenario   string
	ConfigPath string
	Database   string
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Check parity between the local engine and the C++ reference",
		Long: `Run a demo on the in-process engine and on the C++ reference kernel,
then compare event counts, logical time, and final process states.

Without --cpp-exe the reference is built from --kernel-dir via CMake.
A --scenario YAML file expands into a case matrix run sequentially.
Flags override --config file values, which override built-in defaults.

Exit code is 0 when parity is achieved, 1 otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Demo, "demo", "", "demo program to compare")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 42, "injection seed")
	cmd.Flags().IntVar(&opts.MaxEvents, "max-events", 1000, "event cap for the run loop")
	cmd.Flags().IntVar(&opts.Spacing, "spacing", 1, "grid layout spacing")
	cmd.Flags().StringVar(&opts.CppExe, "cpp-exe", "", "prebuilt reference binary (skips the CMake build)")
	cmd.Flags().StringVar(&opts.KernelDir, "kernel-dir", "", "reference kernel CMake source directory")
	cmd.Flags().StringVar(&opts.BuildDir, "build-dir", "", "reference build directory")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "YAML scenario matrix to run")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "TOML config file with harness defaults")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to run-ledger SQLite database")

	return cmd
}

func runCompare(opts *CompareOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	fileCfg, err := resolveConfig(opts, cmd)
	if err != nil {
		_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading config", err)
	}

	base := harness.Config{
		Seed:           fileCfg.Seed,
		MaxEvents:      fileCfg.MaxEvents,
		Spacing:        fileCfg.Spacing,
		DemoPath:       fileCfg.Demo,
		CppExeOverride: fileCfg.CppExe,
		KernelDir:      fileCfg.KernelDir,
		BuildDir:       fileCfg.BuildDir,
		Logger:         newLogger(formatter.GetErrWriter(), opts.Verbose),
	}

	if opts.Scenario != "" {
		return runCompareScenario(opts, formatter, base, fileCfg.DB)
	}

	if base.DemoPath == "" {
		_ = formatter.Error(ErrCodeGeneric, "no demo given: set --demo or a config file demo entry", nil)
		return NewExitError(ExitCommandError, "no demo given")
	}

	result, err := harness.Run(base)
	if err != nil {
		_ = formatter.Error(ErrCodeReference, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parity run failed", err)
	}

	if fileCfg.DB != "" {
		parity := result.ParityAchieved
		runID, err := recordRun(context.Background(), fileCfg.DB, base.DemoPath, result.Grey, &parity)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "recording run", err)
		}
		formatter.VerboseLog("Recorded run %s in %s", runID, fileCfg.DB)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		harness.PrintSummary(formatter.Writer, result)
	}

	if !result.ParityAchieved {
		return NewExitError(ExitFailure, "parity not achieved")
	}
	return nil
}

func runCompareScenario(opts *CompareOptions, formatter *OutputFormatter, base harness.Config, dbPath string) error {
	scenario, err := harness.LoadScenario(opts.Scenario)
	if err != nil {
		_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading scenario", err)
	}

	results, err := harness.RunScenario(scenario, base)
	if err != nil {
		_ = formatter.Error(ErrCodeReference, err.Error(), nil)
		return WrapExitError(ExitCommandError, "running scenario", err)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(results); err != nil {
			return err
		}
	} else {
		harness.PrintScenarioSummary(formatter.Writer, scenario.Name, results)
	}

	if !harness.AllPassed(results) {
		return NewExitError(ExitFailure, "scenario cases failed parity")
	}
	return nil
}

// resolveConfig merges the three configuration layers: built-in
// defaults, then the optional TOML file, then explicitly set flags.
func resolveConfig(opts *CompareOptions, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if opts.ConfigPath != "" {
		loaded, err := config.LoadFile(opts.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("demo") {
		cfg.Demo = opts.Demo
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.Seed
	}
	if flags.Changed("max-events") {
		cfg.MaxEvents = opts.MaxEvents
	}
	if flags.Changed("spacing") {
		cfg.Spacing = opts.Spacing
	}
	if flags.Changed("cpp-exe") {
		cfg.CppExe = opts.CppExe
	}
	if flags.Changed("kernel-dir") {
		cfg.KernelDir = opts.KernelDir
	}
	if flags.Changed("build-dir") {
		cfg.BuildDir = opts.BuildDir
	}
	if flags.Changed("db") {
		cfg.DB = opts.Database
	}
	return cfg, nil
}
