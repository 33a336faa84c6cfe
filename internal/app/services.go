package app

import (
	"fmt"

	"github.com/reymerekar7/beehiiv-mcp-server/internal/beehiiv"
	"github.com/reymerekar7/beehiiv-mcp-server/internal/server"
	"github.com/reymerekar7/beehiiv-mcp-server/internal/tools"
)

// Services holds the components wired together at startup
type Services struct {
	Client *beehiiv.Client
	Tools  *tools.BeehiivTools
	Server *server.Server
}

// InitializeServices builds the request bridge, the tools on top of it and
// the MCP server that exposes them.
func InitializeServices(cfg *Config, opts ...beehiiv.Option) (*Services, error) {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	clientOpts := append([]beehiiv.Option{beehiiv.WithUserAgent("beehiiv-mcp/" + version)}, opts...)
	client, err := beehiiv.NewClient(cfg.BeehiivConfig.Beehiiv, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create beehiiv client: %w", err)
	}

	beehiivTools := tools.NewBeehiivTools(client)

	return &Services{
		Client: client,
		Tools:  beehiivTools,
		Server: server.New(cfg.BeehiivConfig.Server, version, beehiivTools.ServerTools()),
	}, nil
}
