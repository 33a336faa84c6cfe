package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reymerekar7/beehiiv-mcp-server/internal/app"
)

// serveConfigPath replaces the layered configuration lookup with one file.
var serveConfigPath string

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveLogLevel sets the log level unless --debug is given.
var serveLogLevel string

// serveTransport overrides the configured transport.
var serveTransport string

// serveAddr overrides the configured SSE listen address.
var serveAddr string

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the beehiiv tools over MCP",
		Long: `Starts the MCP server. This is also what running beehiiv-mcp without a
subcommand does.

Transports:
  stdio  JSON-RPC over stdin/stdout (default). Logs go to stderr.
  sse    Server-Sent Events on --addr, event stream at /sse.

Configuration is layered, later wins: built-in defaults,
~/.config/beehiiv-mcp/config.yaml, ./.beehiiv-mcp/config.yaml (or --config),
./.env, then the BEEHIIV_API_KEY, BEEHIIV_PUBLICATION_ID and BEEHIIV_BASE_URL
environment variables.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

// runServe is the main entry point for serving
func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveConfigPath, serveDebug, serveTransport, serveAddr)
	cfg.LogLevel = serveLogLevel
	cfg.Version = cmd.Root().Version

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}
