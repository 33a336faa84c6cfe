package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/reymerekar7/beehiiv-mcp-server/pkg/logging"
)

// runServer runs the MCP server until the transport ends or a shutdown
// signal arrives.
func runServer(ctx context.Context, config *Config, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := config.BeehiivConfig.Server
	logging.Info("CLI", "Starting %s (transport: %s)", server.Name, server.Transport)

	if err := services.Server.Serve(ctx); err != nil {
		logging.Error("CLI", err, "Server stopped with error")
		return err
	}

	logging.Info("CLI", "Server stopped")
	return nil
}
