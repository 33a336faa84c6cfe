// Package config provides configuration management for beehiiv-mcp.
//
// Configuration is loaded once at process start and handed to the request
// bridge and the MCP server as an explicit value; nothing reads it from
// package state afterwards.
//
// # Configuration Layers
//
// Layers are merged in the following order, later layers overriding earlier
// ones:
//
//  1. Default Configuration (compiled in)
//  2. User Configuration (~/.config/beehiiv-mcp/config.yaml)
//  3. Project Configuration (./.beehiiv-mcp/config.yaml)
//  4. A .env file in the working directory (only fills variables that are
//     not already set in the process environment)
//  5. Environment variables BEEHIIV_API_KEY, BEEHIIV_PUBLICATION_ID and
//     BEEHIIV_BASE_URL
//
// LoadConfigFromPath replaces layers 2 and 3 with a single explicit file.
//
// # Configuration Structure
//
//	beehiiv:
//	  apiKey: "${BEEHIIV_API_KEY}"
//	  baseURL: "https://api.beehiiv.com/v2"
//	  defaultPublicationID: "pub_00000000-0000-0000-0000-000000000000"
//	server:
//	  name: "beehiiv"
//	  transport: "stdio"   # or "sse"
//	  host: "localhost"
//	  port: 8090
//
// # Environment Variable Expansion
//
// File values support ${VAR} and ${VAR:-default} expansion before parsing.
package config
