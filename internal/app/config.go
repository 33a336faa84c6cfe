package app

import (
	"fmt"
	"net"
	"strconv"

	"github.com/reymerekar7/beehiiv-mcp-server/internal/config"
)

// Config holds the application configuration
type Config struct {
	// ConfigPath replaces the layered file lookup with a single file
	ConfigPath string

	// Debug settings. Debug wins over LogLevel.
	Debug    bool
	LogLevel string

	// Transport overrides server.transport when non-empty
	Transport string

	// Addr overrides server.host and server.port when non-empty
	Addr string

	// Version is advertised to MCP clients and sent in the User-Agent
	Version string

	// Loaded configuration
	BeehiivConfig *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(configPath string, debug bool, transport, addr string) *Config {
	return &Config{
		ConfigPath: configPath,
		Debug:      debug,
		Transport:  transport,
		Addr:       addr,
	}
}

// applyOverrides applies command line flags on top of the loaded configuration.
func (c *Config) applyOverrides(cfg *config.Config) error {
	if c.Transport != "" {
		cfg.Server.Transport = c.Transport
	}
	if c.Addr != "" {
		host, portStr, err := net.SplitHostPort(c.Addr)
		if err != nil {
			return fmt.Errorf("invalid --addr %q: %w", c.Addr, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 0 || port > 65535 {
			return fmt.Errorf("invalid --addr %q: bad port %q", c.Addr, portStr)
		}
		if host != "" {
			cfg.Server.Host = host
		}
		cfg.Server.Port = port
	}
	return nil
}
