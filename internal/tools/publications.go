package tools

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListPublications renders every publication visible to the API key as
// "<id>: <name>", one per line, in API order.
func (bt *BeehiivTools) ListPublications(ctx context.Context) (string, error) {
	res := bt.client.Request(ctx, http.MethodGet, "/publications", nil, nil)
	if err := checkData(res, msgFetchPublications); err != nil {
		return "", err
	}
	return renderLines(res.Get("data"), "name"), nil
}

// HandleListPublications handles the list_publications tool call
func (bt *BeehiivTools) HandleListPublications(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := bt.ListPublications(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}
