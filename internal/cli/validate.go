package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greylang/greyc/internal/backend"
	"github.com/greylang/greyc/internal/compiler"
)

// ValidationResult holds the validate command's verdict.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <demo.cue>",
		Short: "Validate a demo program without generating artifacts",
		Long: `Validate a Grey demo program against the IR schema and resource bounds.

Collects every schema violation instead of stopping at the first, then
checks the resolved runtime process count against the declared bounds
and the engine's 2048-process ceiling.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Spacing, "spacing", 1, "grid layout spacing")

	return cmd
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Spacing int
}

func runValidate(opts *ValidateOptions, demoPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	program, validationErrors, err := compiler.LoadCollectAll(demoPath)
	if err != nil {
		_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading demo", err)
	}

	formatter.VerboseLog("Validating program: %s (%d processes, %d events)",
		program.Name, len(program.Processes), len(program.Events))

	// Schema-clean programs still face the runtime ceilings.
	if len(validationErrors) == 0 {
		placement := backend.GridLayout{Spacing: opts.Spacing}
		runtimeCount := backend.RuntimeProcessCount(program, placement)
		if resErr := backend.ValidateProgram(program, runtimeCount); resErr != nil {
			validationErrors = append(validationErrors, compiler.ValidationError{
				Field:   "resources",
				Message: resErr.Error(),
				Code:    ErrCodeGeneric,
			})
		}
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}

	return outputValidateSuccess(formatter, program.Name)
}

func outputValidateSuccess(formatter *OutputFormatter, programName string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintf(formatter.Writer, "✓ %s is valid\n", programName)
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		if err := formatter.Success(ValidationResult{Valid: false, Errors: errs}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
