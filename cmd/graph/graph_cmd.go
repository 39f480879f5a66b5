package graph

import (
	"fmt"
	"path/filepath"

	"github.com/LegacyCodeHQ/unfurl/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/unfurl/filestore"
	"github.com/LegacyCodeHQ/unfurl/fragment"
	"github.com/LegacyCodeHQ/unfurl/incgraph"
	"github.com/spf13/cobra"
)

type graphOptions struct {
	outputFormat string
	generateURL  bool
}

// Cmd represents the graph command.
var Cmd = NewCommand()

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	opts := &graphOptions{
		outputFormat: formatters.OutputFormatDOT.String(),
	}

	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Render the include graph reachable from a file.",
		Long: `Render the include graph reachable from <file>: one vertex per file,
one edge per include directive. Includes that could not be followed
(missing files, cycles) render as dashed red vertices or edges.

Examples:
  unfurl graph main.c                # Graphviz DOT on stdout
  unfurl graph main.c -f mermaid     # Mermaid flowchart
  unfurl graph main.c -u             # shareable visualization URL`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(
		&opts.outputFormat,
		"format",
		"f",
		opts.outputFormat,
		fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))
	cmd.Flags().BoolVarP(&opts.generateURL, "url", "u", false, "Generate visualization URL (supported formats: dot, mermaid)")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *graphOptions, rootArg string) error {
	formatter, err := formatters.NewFormatter(opts.outputFormat)
	if err != nil {
		return err
	}

	resolver := &fragment.Resolver{Files: filestore.OS()}
	res, err := resolver.Resolve(cmd.Context(), rootArg)
	if err != nil {
		return err
	}

	g, err := incgraph.Build(res)
	if err != nil {
		return fmt.Errorf("failed to build include graph: %w", err)
	}

	format := formatters.OutputFormat(opts.outputFormat)
	if format != formatters.OutputFormatJSON {
		for _, d := range res.Diags {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", d)
		}
	}

	var label string
	if format == formatters.OutputFormatDOT || format == formatters.OutputFormatMermaid {
		label = graphLabel(res)
	}

	output, err := formatter.Format(g, formatters.RenderOptions{Label: label})
	if err != nil {
		return fmt.Errorf("failed to format include graph: %w", err)
	}

	if opts.generateURL {
		if urlStr, ok := formatter.GenerateURL(output); ok {
			fmt.Fprintln(cmd.OutOrStdout(), urlStr)
			return nil
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: URL generation is not supported for %s format\n\n", format)
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

func graphLabel(res *fragment.Result) string {
	fileCount := len(res.Fragments)
	if fileCount == 1 {
		return fmt.Sprintf("%s • %d file", filepath.Base(res.Root), fileCount)
	}
	return fmt.Sprintf("%s • %d files", filepath.Base(res.Root), fileCount)
}
