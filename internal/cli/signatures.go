package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marlinshell/marlin/internal/hir"
	"github.com/marlinshell/marlin/internal/sigdef"
)

// SignaturesOptions holds flags for the signatures command.
type SignaturesOptions struct {
	*RootOptions
	Output string // output file path
}

// SignaturesResult holds the compiled command signatures.
type SignaturesResult struct {
	Signatures []*hir.Signature `json:"signatures"`
}

// NewSignaturesCommand creates the signatures command.
func NewSignaturesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SignaturesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "signatures <manifest.cue | dir>",
		Short: "Compile CUE command manifests to signatures",
		Long: `Compile a CUE command manifest (or a directory of them) into
command signatures.

Signatures declare each command's positional parameters, flags, and
rest parameter, in manifest declaration order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignatures(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runSignatures(opts *SignaturesOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadManifests(path, LoadModeCollectAll)

	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputSignaturesError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputSignaturesError(formatter, ErrCodeGeneric, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, path)
	for _, sig := range loadResult.Signatures {
		formatter.VerboseLog("Compiled signature: %s", sig.Name)
	}

	if len(loadErrors) > 0 {
		return outputSignaturesErrors(formatter, loadErrors)
	}

	result := &SignaturesResult{Signatures: loadResult.Signatures}

	if opts.Output != "" {
		if err := writeSignaturesToFile(result, opts.Output); err != nil {
			return outputSignaturesError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputSignaturesSuccess(formatter, result, opts.Output)
}

// outputSignaturesSuccess outputs compiled signatures.
func outputSignaturesSuccess(formatter *OutputFormatter, result *SignaturesResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d signature(s)\n\n", len(result.Signatures))

	for _, sig := range result.Signatures {
		fmt.Fprintf(formatter.Writer, "  %s: %d positional, %d flag(s)%s\n",
			sig.Name, len(sig.Positional), len(sig.Named), restSuffix(sig))
		if sig.Usage != "" {
			fmt.Fprintf(formatter.Writer, "    %s\n", sig.Usage)
		}
	}
	fmt.Fprintln(formatter.Writer)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote signatures to %s\n", outputFile)
	}

	return nil
}

func restSuffix(sig *hir.Signature) string {
	if sig.Rest == nil {
		return ""
	}
	return ", rest"
}

// outputSignaturesError outputs a single manifest error.
func outputSignaturesError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputSignaturesErrors outputs multiple manifest errors.
func outputSignaturesErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseManifestError(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitCommandError, fmt.Sprintf("manifest failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Manifest compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseManifestError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("manifest failed with %d error(s)", len(errs)))
}

// parseManifestError extracts error code and message from an error.
func parseManifestError(err error) (string, string) {
	var compileErr *sigdef.CompileError
	if errors.As(err, &compileErr) {
		return MapFieldToErrorCode(compileErr.Field), compileErr.Message
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeSignaturesToFile writes the compiled signatures to a file.
func writeSignaturesToFile(result *SignaturesResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling signatures: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
