package config

import "errors"

// Config is the top-level configuration structure for beehiiv-mcp.
type Config struct {
	Beehiiv BeehiivConfig `yaml:"beehiiv"`
	Server  ServerConfig  `yaml:"server"`
}

// BeehiivConfig holds everything the request bridge needs to talk to the API.
type BeehiivConfig struct {
	APIKey  string `yaml:"apiKey,omitempty"`  // Bearer credential, usually supplied via BEEHIIV_API_KEY
	BaseURL string `yaml:"baseURL,omitempty"` // Defaults to https://api.beehiiv.com/v2

	// DefaultPublicationID is loaded for completeness but no tool falls back
	// to it; every tool takes an explicit publication_id.
	DefaultPublicationID string `yaml:"defaultPublicationID,omitempty"`
}

// ServerConfig controls how the MCP server is exposed.
type ServerConfig struct {
	Name      string `yaml:"name,omitempty"`      // Server name advertised during MCP initialize
	Transport string `yaml:"transport,omitempty"` // "stdio" or "sse"
	Host      string `yaml:"host,omitempty"`      // SSE listen host
	Port      int    `yaml:"port,omitempty"`      // SSE listen port
}

const (
	// TransportStdio is the standard I/O transport.
	TransportStdio = "stdio"
	// TransportSSE is the Server-Sent Events transport.
	TransportSSE = "sse"
)

// Environment variables consulted after the file layers.
const (
	EnvAPIKey        = "BEEHIIV_API_KEY"
	EnvPublicationID = "BEEHIIV_PUBLICATION_ID"
	EnvBaseURL       = "BEEHIIV_BASE_URL"
)

var (
	// ErrMissingAPIKey is returned by Validate when no credential is configured.
	ErrMissingAPIKey = errors.New("beehiiv API key is not set (BEEHIIV_API_KEY)")
	// ErrUnsupportedTransport is returned by Validate for an unknown transport.
	ErrUnsupportedTransport = errors.New("unsupported transport")
)
