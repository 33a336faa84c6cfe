// Package server hosts the beehiiv tools on an MCP server.
//
// The server is built on github.com/mark3labs/mcp-go. It registers a fixed
// tool set at construction and serves it over one of two transports:
//
//   - stdio: JSON-RPC messages on stdin/stdout, the default for MCP clients
//     that spawn the binary as a subprocess.
//   - sse: Server-Sent Events on host:port, with the event stream at /sse and
//     client messages posted to /message.
//
// Panics in tool handlers are recovered and reported to the caller as errors,
// so one failing call never stops the serving loop. Every tool call is logged
// through pkg/logging.
package server
