package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marlinshell/marlin/internal/hir"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	Known []string // variables considered bound by the environment
}

// AnalyzeResult summarizes a pipeline tree.
type AnalyzeResult struct {
	Fingerprint     string   `json:"fingerprint"`
	Params          []string `json:"params,omitempty"`
	FreeVariables   []string `json:"free_variables,omitempty"`
	UsesContext     bool     `json:"uses_context"`
	ContextVariable string   `json:"context_variable"`
	Definitions     []string `json:"definitions,omitempty"`
	Groups          int      `json:"groups"`
	Pipelines       int      `json:"pipelines"`
	Commands        int      `json:"commands"`
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze <tree.json>",
		Short: "Report variables, definitions, and shape of a pipeline tree",
		Long: `Analyze an encoded pipeline tree.

Reports the tree's canonical fingerprint, its declared parameters, the
variables it references but does not bind, and whether it uses the
contextual binder.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Known, "known", nil, "variables considered already bound (comma-separated)")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions, treePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	block, err := readTree(treePath)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	contextVar := contextVariable(opts.Config)

	known := make([]string, 0, len(opts.Known))
	for _, name := range opts.Known {
		known = append(known, normalizeVar(name))
	}

	formatter.VerboseLog("Analyzing tree %s (context variable %s)", treePath, contextVar)

	result := analyzeBlock(block, known, contextVar)

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "fingerprint: %s\n", result.Fingerprint)
	if len(result.Params) > 0 {
		fmt.Fprintf(formatter.Writer, "params: %s\n", strings.Join(result.Params, " "))
	}
	if len(result.FreeVariables) > 0 {
		fmt.Fprintf(formatter.Writer, "free: %s\n", strings.Join(result.FreeVariables, " "))
	}
	fmt.Fprintf(formatter.Writer, "uses %s: %v\n", result.ContextVariable, result.UsesContext)
	if len(result.Definitions) > 0 {
		fmt.Fprintf(formatter.Writer, "definitions: %s\n", strings.Join(result.Definitions, " "))
	}
	fmt.Fprintf(formatter.Writer, "%d group(s), %d pipeline(s), %d command(s)\n",
		result.Groups, result.Pipelines, result.Commands)

	return nil
}

func analyzeBlock(block *hir.Block, known []string, contextVar string) AnalyzeResult {
	result := AnalyzeResult{
		Fingerprint:     block.Fingerprint(),
		FreeVariables:   block.FreeVariables(known),
		UsesContext:     block.HasVarUsage(contextVar),
		ContextVariable: contextVar,
		Definitions:     block.Definitions.Names(),
		Groups:          len(block.Groups),
	}

	for _, arg := range block.Params.Positional {
		result.Params = append(result.Params, arg.Name)
	}

	for i := range block.Groups {
		result.Pipelines += len(block.Groups[i].Pipelines)
		for j := range block.Groups[i].Pipelines {
			result.Commands += len(block.Groups[i].Pipelines[j].List)
		}
	}

	return result
}

// contextVariable returns the configured contextual binder name.
func contextVariable(cfg Config) string {
	if cfg.ContextVariable == "" {
		return hir.ItVar
	}
	return normalizeVar(cfg.ContextVariable)
}

// normalizeVar ensures the leading sigil so "--known it,row" and
// "--known $it,$row" mean the same thing.
func normalizeVar(name string) string {
	if strings.HasPrefix(name, "$") {
		return name
	}
	return "$" + name
}
