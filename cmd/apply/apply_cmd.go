package apply

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/unfurl/session"
)

type applyOptions struct {
	editsPath string
	dryRun    bool
}

// editSpec is one requested line replacement. Index counts flattened
// view lines from zero.
type editSpec struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Cmd represents the apply command.
var Cmd = NewCommand()

// NewCommand returns a new apply command instance.
func NewCommand() *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Apply a batch of line edits to the unfurled view of a file.",
		Long: `Apply a batch of line edits against the unfurled view of <file> and
save the accepted edits back to the files they came from.

Edits are JSON: [{"index": 0, "text": "new text"}]. Edits to boundary
or failed-include markers are rejected and never reach a file.

Examples:
  unfurl apply main.c --edits edits.json
  unfurl apply main.c --edits - < edits.json
  unfurl apply main.c --edits edits.json --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.editsPath, "edits", "e", "", "Edits JSON file (- for stdin)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report edit outcomes without saving")

	return cmd
}

func runApply(cmd *cobra.Command, opts *applyOptions, rootArg string) error {
	edits, err := readEdits(cmd, opts.editsPath)
	if err != nil {
		return err
	}

	s, err := session.New(cmd.Context(), rootArg)
	if err != nil {
		return err
	}
	for _, d := range s.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", d)
	}

	out := cmd.OutOrStdout()
	accepted := 0
	for _, edit := range edits {
		outcome := s.ApplyEdit(edit.Index, edit.Text)
		if outcome.Accepted {
			accepted++
			fmt.Fprintf(out, "accepted line %d\n", edit.Index)
			continue
		}
		fmt.Fprintf(out, "rejected line %d: %s\n", edit.Index, outcome.Reason)
	}

	if opts.dryRun {
		fmt.Fprintf(out, "dry run: %d edit(s) accepted, nothing saved\n", accepted)
		return nil
	}

	baseDir := filepath.Dir(s.Root)
	failures := 0
	for _, result := range s.Save(cmd.Context()) {
		if result.OK {
			fmt.Fprintf(out, "saved %s\n", displayPath(baseDir, result.Path))
			continue
		}
		failures++
		fmt.Fprintf(out, "failed to save %s: %v\n", displayPath(baseDir, result.Path), result.Err)
	}
	if failures > 0 {
		return fmt.Errorf("failed to save %d file(s)", failures)
	}
	return nil
}

func readEdits(cmd *cobra.Command, editsPath string) ([]editSpec, error) {
	if editsPath == "" {
		return nil, errors.New("no edits provided (use --edits <file> or --edits -)")
	}

	var data []byte
	var err error
	if editsPath == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(editsPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read edits: %w", err)
	}

	var edits []editSpec
	if err := json.Unmarshal(data, &edits); err != nil {
		return nil, fmt.Errorf("failed to parse edits: %w", err)
	}
	return edits, nil
}

func displayPath(baseDir, absolutePath string) string {
	rel, err := filepath.Rel(baseDir, absolutePath)
	if err != nil || rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return absolutePath
	}
	return rel
}
