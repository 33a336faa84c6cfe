package app

import (
	"context"
	"fmt"
	"os"

	"github.com/reymerekar7/beehiiv-mcp-server/internal/config"
	"github.com/reymerekar7/beehiiv-mcp-server/pkg/logging"
)

// Application is the main application structure that bootstraps and runs the server
type Application struct {
	config   *Config
	services *Services
}

// NewApplication creates and initializes a new application instance
func NewApplication(cfg *Config) (*Application, error) {
	// Configure logging based on debug flag. stdout belongs to the stdio
	// transport, so logs always go to stderr.
	appLogLevel := logging.ParseLevel(cfg.LogLevel)
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	logging.Init(appLogLevel, os.Stderr)

	var beehiivCfg config.Config
	var err error

	if cfg.ConfigPath != "" {
		beehiivCfg, err = config.LoadConfigFromPath(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from path: %s", cfg.ConfigPath)
			return nil, fmt.Errorf("failed to load configuration from path %s: %w", cfg.ConfigPath, err)
		}
		logging.Info("Bootstrap", "Loaded configuration from custom path: %s", cfg.ConfigPath)
	} else {
		beehiivCfg, err = config.LoadConfig()
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration")
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		logging.Debug("Bootstrap", "Loaded configuration using layered approach")
	}

	if err := cfg.applyOverrides(&beehiivCfg); err != nil {
		return nil, err
	}
	if err := beehiivCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.BeehiivConfig = &beehiivCfg

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Run serves MCP on the configured transport until it ends or the process
// receives SIGINT/SIGTERM.
func (a *Application) Run(ctx context.Context) error {
	return runServer(ctx, a.config, a.services)
}
