package edit

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/unfurl/fragcache"
	"github.com/LegacyCodeHQ/unfurl/internal/config"
	"github.com/LegacyCodeHQ/unfurl/session"
)

type editOptions struct {
	port int
}

// Cmd represents the edit command.
var Cmd = NewCommand()

// NewCommand returns a new edit command instance.
func NewCommand() *cobra.Command {
	opts := &editOptions{
		port: config.DefaultPort,
	}

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit the unfurled view of a file in the browser.",
		Long: `Unfurl <file> and serve an editable flattened view at localhost. Edits
to code lines are reconciled back to the files they came from; edits to
boundary or failed-include markers are rejected and reverted on the
page. Saving writes every touched file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "P", opts.port, "HTTP server port")

	return cmd
}

func runEdit(cmd *cobra.Command, opts *editOptions, rootArg string) error {
	cfg := config.Load()
	port := opts.port
	if !cmd.Flags().Changed("port") {
		port = cfg.Port
	}

	cache, err := fragcache.New(cfg.CacheSize)
	if err != nil {
		return fmt.Errorf("failed to create fragment cache: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := session.New(ctx, rootArg, session.WithCache(cache))
	if err != nil {
		return err
	}
	for _, d := range s.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", d)
	}

	es := newEditServer(s)
	srv := newServer(es, port)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	go srv.Serve(ln)

	fmt.Fprintf(cmd.OutOrStdout(), "Editing %s\n", s.Root)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving at http://localhost:%d\n", port)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	<-ctx.Done()
	return srv.Close()
}
