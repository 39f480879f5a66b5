package view

import (
	"fmt"

	"github.com/LegacyCodeHQ/unfurl/cmd/view/formatters"
	"github.com/LegacyCodeHQ/unfurl/session"
	"github.com/spf13/cobra"
)

type viewOptions struct {
	outputFormat string
}

// Cmd represents the view command.
var Cmd = NewCommand()

// NewCommand returns a new view command instance.
func NewCommand() *cobra.Command {
	opts := &viewOptions{
		outputFormat: formatters.OutputFormatText.String(),
	}

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Unfurl a file's includes into one flattened view.",
		Long: `Recursively expand the #include directives reachable from <file> and
print the flattened result. Included files are framed by start/end
marker lines; includes that cannot be followed render as a failure
marker and a warning on stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(
		&opts.outputFormat,
		"format",
		"f",
		opts.outputFormat,
		fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))

	return cmd
}

func runView(cmd *cobra.Command, opts *viewOptions, rootArg string) error {
	formatter, err := formatters.NewFormatter(opts.outputFormat)
	if err != nil {
		return err
	}

	s, err := session.New(cmd.Context(), rootArg)
	if err != nil {
		return err
	}

	// JSON carries diagnostics in the payload; the text formats report
	// them on stderr so the view itself stays pipeable.
	if formatters.OutputFormat(opts.outputFormat) != formatters.OutputFormatJSON {
		for _, d := range s.Diagnostics {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", d)
		}
	}

	output, err := formatter.Format(s)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
