package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/greylang/greyc/internal/backend"
	"github.com/greylang/greyc/internal/compiler"
	"github.com/greylang/greyc/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	OutputDir string
	Target    string
	Seed      uint64
	MaxEvents int
	Spacing   int
}

// CompileResult is the compile command's success payload.
type CompileResult struct {
	Program     string                  `json:"program"`
	ProgramHash string                  `json:"program_hash"`
	Target      string                  `json:"target"`
	Metadata    backend.CodeGenMetadata `json:"metadata"`
	Files       []string                `json:"files"`
	OutputDir   string                  `json:"output_dir,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <demo.cue>",
		Short: "Compile a demo program to runtime artifacts",
		Long: `Compile a Grey demo program to runtime artifacts.

Loads and validates the CUE demo, resolves grid placement, and emits
the executable and validation artifacts for the chosen target language.
Without --output the artifacts are generated but not written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "", "directory to write artifacts to")
	cmd.Flags().StringVar(&opts.Target, "target", "rust", "artifact language (rust|go)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 42, "injection seed baked into runtime config")
	cmd.Flags().IntVar(&opts.MaxEvents, "max-events", 1000, "event cap baked into artifacts")
	cmd.Flags().IntVar(&opts.Spacing, "spacing", 1, "grid layout spacing")

	return cmd
}

func runCompile(opts *CompileOptions, demoPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	target, err := emitTarget(opts.Target)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid target", err)
	}

	program, err := compiler.Load(demoPath)
	if err != nil {
		_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "compilation failed", err)
	}

	formatter.VerboseLog("Compiling program: %s (%d processes, %d events)",
		program.Name, len(program.Processes), len(program.Events))

	gen := backend.NewGenerator(backend.Config{
		Placement: backend.GridLayout{Spacing: opts.Spacing},
		MaxEvents: opts.MaxEvents,
		Seed:      opts.Seed,
		Ordering:  backend.OrderingDeterministic,
		Telemetry: true,
	}, target, newLogger(formatter.GetErrWriter(), opts.Verbose))

	output, err := gen.Generate(program)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "code generation failed", err)
	}

	hash, err := ir.ProgramHash(program)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "hashing program", err)
	}

	files := make([]string, 0, len(output.Files))
	for name := range output.Files {
		files = append(files, name)
	}
	sort.Strings(files)

	if opts.OutputDir != "" {
		if err := writeArtifacts(opts.OutputDir, output.Files); err != nil {
			_ = formatter.Error(ErrCodeWrite, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing artifacts", err)
		}
	}

	result := CompileResult{
		Program:     program.Name,
		ProgramHash: hash,
		Target:      target.Name(),
		Metadata:    output.Metadata,
		Files:       files,
		OutputDir:   opts.OutputDir,
	}

	return outputCompileSuccess(formatter, result)
}

// emitTarget maps the --target flag to a backend target.
func emitTarget(name string) (backend.EmitTarget, error) {
	switch name {
	case "rust":
		return backend.RustTarget{}, nil
	case "go":
		return backend.GoTarget{}, nil
	default:
		return nil, fmt.Errorf("unknown target %q: must be rust or go", name)
	}
}

func writeArtifacts(dir string, files map[string]string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func outputCompileSuccess(formatter *OutputFormatter, result CompileResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %s (%s target)\n", result.Program, result.Target)
	fmt.Fprintf(w, "  program_hash:       %s\n", result.ProgramHash)
	fmt.Fprintf(w, "  declared_processes: %d\n", result.Metadata.DeclaredProcessCount)
	fmt.Fprintf(w, "  runtime_processes:  %d\n", result.Metadata.RuntimeProcessCount)
	fmt.Fprintf(w, "  events:             %d\n", result.Metadata.EventCount)
	if result.Metadata.EstimatedExecutionTimeNS != nil {
		fmt.Fprintf(w, "  estimated_ns:       %d\n", *result.Metadata.EstimatedExecutionTimeNS)
	}

	fmt.Fprintln(w, "Artifacts:")
	for _, name := range result.Files {
		fmt.Fprintf(w, "  %s\n", name)
	}
	if result.OutputDir != "" {
		fmt.Fprintf(w, "Wrote artifacts to %s\n", result.OutputDir)
	}
	return nil
}
