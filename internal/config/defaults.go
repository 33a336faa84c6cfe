package config

import (
	"fmt"
	"net"
	"strconv"
)

// DefaultBaseURL is the beehiiv API v2 endpoint.
const DefaultBaseURL = "https://api.beehiiv.com/v2"

// GetDefaultConfig returns the built-in configuration layer.
// It carries no credential; that must come from a file or the environment.
func GetDefaultConfig() Config {
	return Config{
		Beehiiv: BeehiivConfig{
			BaseURL: DefaultBaseURL,
		},
		Server: ServerConfig{
			Name:      "beehiiv",
			Transport: TransportStdio,
			Host:      "localhost",
			Port:      8090,
		},
	}
}

// Validate checks the merged configuration before the server starts.
func (c Config) Validate() error {
	if c.Beehiiv.APIKey == "" {
		return ErrMissingAPIKey
	}
	switch c.Server.Transport {
	case TransportStdio, TransportSSE:
	default:
		return fmt.Errorf("%w: %q (supported: %s, %s)", ErrUnsupportedTransport, c.Server.Transport, TransportStdio, TransportSSE)
	}
	return nil
}

// Addr returns the host:port the SSE transport listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
