package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/reymerekar7/beehiiv-mcp-server/pkg/logging"
)

// newHooks logs every tool call. Tool failures are results, not protocol
// errors, so they are logged from the after-call hook.
func newHooks() *mcpserver.Hooks {
	hooks := &mcpserver.Hooks{}

	// Request id -> start time of the in-flight call.
	var started sync.Map
	hooks.AddBeforeCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest) {
		started.Store(id, time.Now())
		logging.Debug(subsystem, "Tool call %v: %s", id, req.Params.Name)
	})

	hooks.AddAfterCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest, result *mcp.CallToolResult) {
		var elapsed time.Duration
		if start, ok := started.LoadAndDelete(id); ok {
			elapsed = time.Since(start.(time.Time)).Round(time.Millisecond)
		}
		if result != nil && result.IsError {
			logging.Warn(subsystem, "Tool call %v: %s failed after %s: %s", id, req.Params.Name, elapsed, resultSummary(result))
			return
		}
		logging.Debug(subsystem, "Tool call %v: %s completed in %s", id, req.Params.Name, elapsed)
	})

	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		started.Delete(id)
		logging.Error(subsystem, err, "Request %v (%s) failed", id, method)
	})

	return hooks
}

func resultSummary(result *mcp.CallToolResult) string {
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return fmt.Sprintf("%d content items", len(result.Content))
}
