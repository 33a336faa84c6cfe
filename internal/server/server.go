package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/reymerekar7/beehiiv-mcp-server/internal/config"
	"github.com/reymerekar7/beehiiv-mcp-server/pkg/logging"
)

const (
	subsystem = "Server"

	shutdownTimeout   = 5 * time.Second
	keepAliveInterval = 30 * time.Second
)

// Server exposes a fixed set of tools over MCP.
type Server struct {
	config  config.ServerConfig
	version string

	mcpServer *mcpserver.MCPServer
	tools     map[string]mcpserver.ServerTool

	// Lifecycle management
	mu         sync.Mutex
	running    bool
	httpServer *http.Server
	sseServer  *mcpserver.SSEServer
	listenAddr string
}

// New creates the MCP server and registers the given tools on it.
func New(cfg config.ServerConfig, version string, tools []mcpserver.ServerTool) *Server {
	if cfg.Name == "" {
		cfg.Name = config.GetDefaultConfig().Server.Name
	}
	if version == "" {
		version = "dev"
	}

	s := &Server{
		config:  cfg,
		version: version,
		tools:   make(map[string]mcpserver.ServerTool, len(tools)),
	}

	s.mcpServer = mcpserver.NewMCPServer(
		cfg.Name,
		version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
		mcpserver.WithHooks(newHooks()),
	)

	for _, tool := range tools {
		s.tools[tool.Tool.Name] = tool
	}
	s.mcpServer.AddTools(tools...)

	logging.Debug(subsystem, "Registered %d tools on %s %s", len(tools), cfg.Name, version)
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// GetTools returns the registered tool definitions.
func (s *Server) GetTools() []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(s.tools))
	for _, tool := range s.tools {
		tools = append(tools, tool.Tool)
	}
	return tools
}

// CallTool invokes a registered tool directly, bypassing the transport.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	tool, ok := s.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return tool.Handler(ctx, req)
}

// Serve runs the configured transport until ctx is cancelled or, for stdio,
// the client closes its input.
func (s *Server) Serve(ctx context.Context) error {
	switch s.config.Transport {
	case "", config.TransportStdio:
		return s.ServeStdio(ctx, os.Stdin, os.Stdout)
	case config.TransportSSE:
		return s.ServeSSE(ctx)
	default:
		return fmt.Errorf("%w: %q", config.ErrUnsupportedTransport, s.config.Transport)
	}
}

// ServeStdio speaks MCP over the given reader and writer.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	if err := s.markRunning(); err != nil {
		return err
	}
	defer s.markStopped()

	stdio := mcpserver.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(logging.StdLogger("Stdio"))

	logging.Info(subsystem, "Serving %s over stdio", s.config.Name)
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	logging.Info(subsystem, "Stdio transport closed")
	return nil
}

// ServeSSE serves MCP over Server-Sent Events on the configured address and
// shuts down when ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context) error {
	if err := s.markRunning(); err != nil {
		return err
	}
	defer s.markStopped()

	listener, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}
	addr := listener.Addr().String()

	sseServer := mcpserver.NewSSEServer(
		s.mcpServer,
		mcpserver.WithBaseURL("http://"+addr),
		mcpserver.WithSSEEndpoint("/sse"),
		mcpserver.WithMessageEndpoint("/message"),
		mcpserver.WithKeepAlive(true),
		mcpserver.WithKeepAliveInterval(keepAliveInterval),
	)
	httpServer := &http.Server{
		Handler:           sseServer,
		ReadHeaderTimeout: 10 * time.Second,
		// Open event streams end with ctx instead of holding up Shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.sseServer = sseServer
	s.httpServer = httpServer
	s.listenAddr = addr
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()
	logging.Info(subsystem, "Serving %s over SSE at %s", s.config.Name, s.Endpoint())

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("SSE transport: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info(subsystem, "Stopping SSE transport")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := sseServer.Shutdown(shutdownCtx); err != nil {
		logging.Warn(subsystem, "Error closing SSE sessions: %v", err)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(subsystem, err, "Error shutting down SSE server")
		_ = httpServer.Close()
	}
	<-errCh
	return nil
}

// Endpoint returns the SSE endpoint URL while the SSE transport is running.
func (s *Server) Endpoint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listenAddr == "" {
		return ""
	}
	return "http://" + s.listenAddr + "/sse"
}

func (s *Server) markRunning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	s.running = true
	return nil
}

func (s *Server) markStopped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.httpServer = nil
	s.sseServer = nil
	s.listenAddr = ""
}
