package harness

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/greylang/greyc/internal/backend"
	"github.com/greylang/greyc/internal/compiler"
	"github.com/greylang/greyc/internal/engine"
	"github.com/greylang/greyc/internal/runner"
)

// Config parameterizes one harness run.
type Config struct {
	Seed      uint64
	MaxEvents int
	Spacing   int

	// DemoPath is the program source to compile and run.
	DemoPath string

	// CppExeOverride skips the CMake build and uses this binary
	// directly.
	CppExeOverride string

	// KernelDir and BuildDir locate the reference build when no
	// override is given.
	KernelDir string
	BuildDir  string

	// Target selects the emitted artifact syntax. Defaults to Rust, the
	// original runtime's language.
	Target backend.EmitTarget

	Logger *slog.Logger
}

// DefaultConfig returns the canonical harness parameters.
func DefaultConfig() Config {
	return Config{
		Seed:      42,
		MaxEvents: 1000,
		Spacing:   1,
	}
}

func (c Config) normalized() Config {
	if c.Target == nil {
		c.Target = backend.RustTarget{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// LocalRun couples a run snapshot with the program that produced it.
type LocalRun struct {
	Program string
	Result  ExecutionResult
}

// Run executes the full parity pipeline: local run, reference run,
// comparison. The comparison is terminal; callers only consume it for
// reporting and the exit-code decision.
func Run(cfg Config) (*ComparisonResult, error) {
	cfg = cfg.normalized()

	local, err := ExecuteLocal(cfg)
	if err != nil {
		return nil, err
	}

	reference, err := executeReference(local.Result, cfg)
	if err != nil {
		return nil, err
	}

	result := Compare(local.Result, reference)
	return &result, nil
}

// ExecuteLocal runs the local pipeline: compile the demo, generate the
// workload, execute it on the in-process kernel.
func ExecuteLocal(cfg Config) (LocalRun, error) {
	cfg = cfg.normalized()
	log := cfg.Logger.With("component", "harness")

	start := time.Now()

	program, err := compiler.Load(cfg.DemoPath)
	if err != nil {
		return LocalRun{}, fmt.Errorf("compiling %s: %w", cfg.DemoPath, err)
	}

	gen := backend.NewGenerator(backend.Config{
		Placement: backend.GridLayout{Spacing: cfg.Spacing},
		MaxEvents: cfg.MaxEvents,
		Seed:      cfg.Seed,
		Ordering:  backend.OrderingDeterministic,
		Telemetry: true,
	}, cfg.Target, cfg.Logger)

	output, err := gen.Generate(program)
	if err != nil {
		return LocalRun{}, fmt.Errorf("generating code: %w", err)
	}

	kernel := engine.NewCompute(cfg.Logger)
	defer kernel.Close()

	telemetry, err := runner.Execute(kernel, output, cfg.Logger)
	if err != nil {
		return LocalRun{}, fmt.Errorf("executing workload: %w", err)
	}

	log.Debug("local run complete",
		"program", program.Name,
		"events_processed", telemetry.EventsProcessed,
		"runtime_processes", output.Metadata.RuntimeProcessCount)

	return LocalRun{
		Program: program.Name,
		Result: ExecutionResult{
			SeedUsed:         cfg.Seed,
			MaxEvents:        cfg.MaxEvents,
			RuntimeProcesses: output.Metadata.RuntimeProcessCount,
			Spacing:          cfg.Spacing,
			EventsProcessed:  telemetry.EventsProcessed,
			CurrentTime:      telemetry.CurrentTime,
			ExecutionTimeNS:  uint64(time.Since(start).Nanoseconds()),
			ProcessStates:    StateMap(telemetry.ProcessStates),
		},
	}, nil
}

// executeReference resolves the reference binary and invokes it with
// parameters mirroring the local run.
func executeReference(local ExecutionResult, cfg Config) (ExecutionResult, error) {
	exe := cfg.CppExeOverride
	if exe == "" {
		built, err := BuildReference(cfg.KernelDir, cfg.BuildDir)
		if err != nil {
			return ExecutionResult{}, fmt.Errorf("building reference: %w", err)
		}
		exe = built
	}

	result, err := InvokeReference(exe, cfg.Seed, cfg.MaxEvents, local.RuntimeProcesses, cfg.Spacing)
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("invoking reference: %w", err)
	}
	return result, nil
}
