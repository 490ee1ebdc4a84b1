package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Source string // original source file path
}

// RenderResult is the JSON payload for a successful render.
type RenderResult struct {
	Rendered    string `json:"rendered"`
	Fingerprint string `json:"fingerprint"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <tree.json>",
		Short: "Render a pipeline tree back to readable form",
		Long: `Render an encoded pipeline tree as a compact debug string.

With --source, spans are resolved against the original source text so
variables and bare words show their written form. Without it, nodes
fall back to placeholder words.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "original source file for span resolution")

	return cmd
}

func runRender(opts *RenderOptions, treePath string, cmd *cobra.Command) error {
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

	source, err := readSource(opts.Source)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	formatter.VerboseLog("Rendering tree %s (%d group(s))", treePath, len(block.Groups))

	rendered := block.Render(source)

	if formatter.Format == "json" {
		return formatter.Success(RenderResult{
			Rendered:    rendered,
			Fingerprint: block.Fingerprint(),
		})
	}

	fmt.Fprintln(formatter.Writer, rendered)
	return nil
}
