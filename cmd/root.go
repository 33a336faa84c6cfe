package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// Without a subcommand it serves MCP, which is what MCP clients expect when
// they spawn the binary.
var rootCmd = &cobra.Command{
	Use:   "beehiiv-mcp",
	Short: "MCP server for the beehiiv newsletter API",
	Long: `beehiiv-mcp exposes a beehiiv account to AI assistants as MCP tools:
listing publications and posts, reading a post or its content template,
and creating new posts.

The API key is read from BEEHIIV_API_KEY (or a .env file, or the config file).`,
	Args: cobra.NoArgs,
	RunE: runServe,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. missing credentials, failed listeners)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "beehiiv-mcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVar(&serveConfigPath, "config", "", "Configuration file (default: layered ~/.config/beehiiv-mcp/config.yaml and ./.beehiiv-mcp/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&serveLogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&serveTransport, "transport", "", "Transport to serve on: stdio or sse (default from config, stdio)")
	rootCmd.PersistentFlags().StringVar(&serveAddr, "addr", "", "Listen address for the sse transport, host:port")
}
