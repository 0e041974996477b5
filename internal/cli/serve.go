package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mcp-health-journal/internal/server"
)

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (HTTP transport)",
		Long: `Start the journal MCP server. Tool calls are accepted as JSON POST
requests carrying a tool name and its arguments.`,
		Example: `  # Listen on the default port
  health-journal serve

  # Custom address and database
  health-journal serve --host 127.0.0.1 --port 9000 --db-path ./journal.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.String("transport", "", "Transport mode: http")
	flags.String("host", "", "Host address")
	flags.Int("port", 0, "Port for HTTP transport")
	_ = a.v.BindPFlag("transport", flags.Lookup("transport"))
	_ = a.v.BindPFlag("host", flags.Lookup("host"))
	_ = a.v.BindPFlag("port", flags.Lookup("port"))

	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	srv, err := server.NewJournalServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case serveErr = <-errCh:
		if serveErr != nil {
			log.WithError(serveErr).Error("server error")
		}
	}

	log.Info("shutting down")
	if err := srv.Stop(); err != nil {
		log.WithError(err).Warn("error during shutdown")
	}
	return serveErr
}
