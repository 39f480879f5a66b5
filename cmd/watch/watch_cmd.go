package watch

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

type watchOptions struct {
	port int
}

// Cmd represents the watch command.
var Cmd = NewCommand()

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{
		port: config.DefaultPort,
	}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Serve a live unfurled view that follows file changes.",
		Long: `Unfurl <file> and serve the flattened view at localhost. Whenever a
file in the include tree changes, the view is rebuilt and pushed to the
page over a server-sent event stream.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "P", opts.port, "HTTP server port")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions, rootArg string) error {
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

	b := newBroker()
	srv := newServer(b, port)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	go srv.Serve(ln)

	vw := newViewWatcher(s.Root, cache, cfg.Debounce, b)
	vw.publish(s)

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", s.Root)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving at http://localhost:%d\n", port)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	err = vw.run(ctx, s)

	srv.Close()
	return err
}
