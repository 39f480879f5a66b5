package cmd

import (
	"os"

	"github.com/spf13/cobra"

	applycmd "github.com/LegacyCodeHQ/unfurl/cmd/apply"
	editcmd "github.com/LegacyCodeHQ/unfurl/cmd/edit"
	graphcmd "github.com/LegacyCodeHQ/unfurl/cmd/graph"
	viewcmd "github.com/LegacyCodeHQ/unfurl/cmd/view"
	watchcmd "github.com/LegacyCodeHQ/unfurl/cmd/watch"
	whycmd "github.com/LegacyCodeHQ/unfurl/cmd/why"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "unfurl",
	Short: "Expand, inspect, and edit files through their include directives",
	Long: `Unfurl is a CLI tool for working with files through their #include
directives. It flattens a root file and its includes into one seamless
view, tracking the file and line behind every view line so that edits
made to the view can be written back to the files that own them.

Use 'unfurl --help' to see all available commands, or 'unfurl <command> --help'
for detailed information about a specific command.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Register subcommands
	rootCmd.AddCommand(
		viewcmd.Cmd,
		graphcmd.Cmd,
		whycmd.Cmd,
		applycmd.Cmd,
		watchcmd.Cmd,
		editcmd.Cmd,
	)

	// Initialize annotations for version template
	if rootCmd.Annotations == nil {
		rootCmd.Annotations = make(map[string]string)
	}
	rootCmd.Annotations["buildDate"] = buildDate
	rootCmd.Annotations["commit"] = commit

	// Update version field dynamically (in case it was set via ldflags)
	rootCmd.Version = version

	// Customize version template to show additional build info
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)
}
