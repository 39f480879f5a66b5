package why

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/unfurl/filestore"
	"github.com/LegacyCodeHQ/unfurl/fragment"
	"github.com/LegacyCodeHQ/unfurl/incgraph"
)

const (
	formatText = "text"
	formatDOT  = "dot"
)

type whyOptions struct {
	outputFormat string
	limit        int
}

// Cmd represents the why command.
var Cmd = NewCommand()

// NewCommand returns a new why command instance.
func NewCommand() *cobra.Command {
	opts := &whyOptions{
		outputFormat: formatText,
	}

	cmd := &cobra.Command{
		Use:   "why <root> <target>",
		Short: "Show the include chain(s) that pull a file into a root.",
		Long: `Show every include chain that leads from <root> to <target>, shortest
first. Each chain is one way the target ends up in the unfurled view of
the root.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhy(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(
		&opts.outputFormat,
		"format",
		"f",
		opts.outputFormat,
		fmt.Sprintf("Output format (%s)", supportedFormats()))
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of chains to report (0 = all)")

	return cmd
}

func runWhy(cmd *cobra.Command, opts *whyOptions, rootArg, targetArg string) error {
	if !isSupportedFormat(opts.outputFormat) {
		return fmt.Errorf("unknown format: %s (valid options: %s)", opts.outputFormat, supportedFormats())
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

	for _, d := range res.Diags {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", d)
	}

	targetPath, err := filestore.Canonical(targetArg)
	if err != nil {
		return err
	}

	files, err := g.Files()
	if err != nil {
		return err
	}
	if !containsFile(files, targetPath) {
		return fmt.Errorf("target file not found in include graph: %s", targetArg)
	}

	chains, err := g.Chains(res.Root, targetPath, opts.limit)
	if err != nil {
		return fmt.Errorf("failed to search include chains: %w", err)
	}

	output, err := formatOutput(opts.outputFormat, filepath.Dir(res.Root), res.Root, targetPath, chains)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

func containsFile(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}
	return false
}

func formatOutput(format, baseDir, rootPath, targetPath string, chains [][]string) (string, error) {
	switch strings.ToLower(format) {
	case formatText:
		return formatTextOutput(baseDir, rootPath, targetPath, chains), nil
	case formatDOT:
		return formatDOTOutput(baseDir, chains), nil
	default:
		return "", fmt.Errorf("unknown format: %s (valid options: %s)", format, supportedFormats())
	}
}

func formatTextOutput(baseDir, rootPath, targetPath string, chains [][]string) string {
	rootDisplay := displayPath(baseDir, rootPath)
	targetDisplay := displayPath(baseDir, targetPath)

	if len(chains) == 0 {
		return fmt.Sprintf("No include chain from %s to %s.", rootDisplay, targetDisplay)
	}

	lines := []string{
		fmt.Sprintf("Include chain(s) from %s to %s:", rootDisplay, targetDisplay),
	}
	for _, chain := range chains {
		steps := make([]string, len(chain))
		for i, path := range chain {
			steps[i] = displayPath(baseDir, path)
		}
		lines = append(lines, fmt.Sprintf("- %s", strings.Join(steps, " -> ")))
	}
	return strings.Join(lines, "\n")
}

func formatDOTOutput(baseDir string, chains [][]string) string {
	var b strings.Builder
	b.WriteString("digraph G {\n")
	b.WriteString("  rankdir=LR;\n")

	declared := make(map[string]bool)
	for _, chain := range chains {
		for _, path := range chain {
			if declared[path] {
				continue
			}
			declared[path] = true
			b.WriteString(fmt.Sprintf("  %q [label=%q, shape=box];\n", path, displayPath(baseDir, path)))
		}
	}

	drawn := make(map[incgraph.Edge]bool)
	for _, chain := range chains {
		for i := 0; i+1 < len(chain); i++ {
			edge := incgraph.Edge{From: chain[i], To: chain[i+1]}
			if drawn[edge] {
				continue
			}
			drawn[edge] = true
			b.WriteString(fmt.Sprintf("  %q -> %q;\n", edge.From, edge.To))
		}
	}
	b.WriteString("}")
	return b.String()
}

func displayPath(baseDir, absolutePath string) string {
	rel, err := filepath.Rel(baseDir, absolutePath)
	if err != nil || rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return absolutePath
	}
	return rel
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(format) {
	case formatText, formatDOT:
		return true
	default:
		return false
	}
}

func supportedFormats() string {
	return strings.Join([]string{formatText, formatDOT}, ", ")
}
