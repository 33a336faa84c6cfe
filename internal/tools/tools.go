package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tidwall/gjson"

	"github.com/reymerekar7/beehiiv-mcp-server/internal/beehiiv"
)

// Tool names as exposed to MCP clients.
const (
	ToolListPublications = "list_publications"
	ToolListPosts        = "list_posts"
	ToolGetPost          = "get_post"
	ToolGetPostContent   = "get_post_content"
	ToolCreateNewPost    = "create_new_post"
)

// Requester is the request bridge as seen by the tools.
type Requester interface {
	Request(ctx context.Context, method, path string, params any, body any) *beehiiv.Result
}

// BeehiivTools provides MCP tools backed by the beehiiv API.
// Every handler calls the bridge exactly once.
type BeehiivTools struct {
	client Requester
}

// NewBeehiivTools creates the tool set on top of a request bridge.
func NewBeehiivTools(client Requester) *BeehiivTools {
	return &BeehiivTools{client: client}
}

// GetTools returns all tool definitions
func (bt *BeehiivTools) GetTools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolListPublications,
			mcp.WithDescription("List all publications accessible with this API key"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithOpenWorldHintAnnotation(true),
		),
		mcp.NewTool(ToolListPosts,
			mcp.WithDescription("List the five most recently published confirmed posts of a publication"),
			mcp.WithString("publication_id",
				mcp.Required(),
				mcp.Description("ID of the publication, e.g. 'pub_00000000-0000-0000-0000-000000000000'"),
			),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithOpenWorldHintAnnotation(true),
		),
		mcp.NewTool(ToolGetPost,
			mcp.WithDescription("Retrieve a single post by ID"),
			mcp.WithString("publication_id",
				mcp.Required(),
				mcp.Description("ID of the publication"),
			),
			mcp.WithString("post_id",
				mcp.Required(),
				mcp.Description("ID of the post"),
			),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithOpenWorldHintAnnotation(true),
		),
		mcp.NewTool(ToolGetPostContent,
			mcp.WithDescription("Retrieve a post's title, subtitle, content structure and HTML as JSON, for use as a template"),
			mcp.WithString("publication_id",
				mcp.Required(),
				mcp.Description("ID of the publication"),
			),
			mcp.WithString("post_id",
				mcp.Required(),
				mcp.Description("ID of the post"),
			),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithOpenWorldHintAnnotation(true),
		),
		mcp.NewTool(ToolCreateNewPost,
			mcp.WithDescription("Create a new post from HTML content. The same HTML is used for web, email and RSS. Requires an API plan with post creation enabled."),
			mcp.WithString("publication_id",
				mcp.Required(),
				mcp.Description("ID of the publication"),
			),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Title of the new post"),
			),
			mcp.WithString("subtitle",
				mcp.Required(),
				mcp.Description("Subtitle of the new post"),
			),
			mcp.WithString("html_content",
				mcp.Required(),
				mcp.Description("Content for the post; HTML unless content_format is 'markdown'"),
			),
			mcp.WithString("content_format",
				mcp.Description("Format of html_content"),
				mcp.Enum(FormatHTML, FormatMarkdown),
				mcp.DefaultString(FormatHTML),
			),
			mcp.WithReadOnlyHintAnnotation(false),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
			mcp.WithOpenWorldHintAnnotation(true),
		),
	}
}

// ServerTools pairs every tool definition with its handler for registration
// on an MCP server.
func (bt *BeehiivTools) ServerTools() []server.ServerTool {
	handlers := map[string]server.ToolHandlerFunc{
		ToolListPublications: bt.HandleListPublications,
		ToolListPosts:        bt.HandleListPosts,
		ToolGetPost:          bt.HandleGetPost,
		ToolGetPostContent:   bt.HandleGetPostContent,
		ToolCreateNewPost:    bt.HandleCreateNewPost,
	}

	var serverTools []server.ServerTool
	for _, tool := range bt.GetTools() {
		serverTools = append(serverTools, server.ServerTool{
			Tool:    tool,
			Handler: handlers[tool.Name],
		})
	}
	return serverTools
}

// requireArg extracts a required, non-blank string argument. The second
// return value is the error result to hand back when it is missing.
func requireArg(req mcp.CallToolRequest, name string) (string, *mcp.CallToolResult) {
	value, err := req.RequireString(name)
	if err != nil || strings.TrimSpace(value) == "" {
		return "", mcp.NewToolResultError(fmt.Sprintf("%s is required", name))
	}
	return value, nil
}

// jsonResult renders v as indented JSON text content.
func jsonResult(v any) *mcp.CallToolResult {
	resultJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err))
	}
	return mcp.NewToolResultText(string(resultJSON))
}

// jsonErrorResult renders the single-field {"error": message} object and
// flags the result as an error.
func jsonErrorResult(message string) *mcp.CallToolResult {
	result := jsonResult(map[string]string{"error": message})
	result.IsError = true
	return result
}

// fieldText renders a response value for the text tools: strings verbatim,
// other JSON values as their raw JSON, missing or null values as "".
func fieldText(r gjson.Result) string {
	switch {
	case !r.Exists(), r.Type == gjson.Null:
		return ""
	case r.Type == gjson.String:
		return r.String()
	default:
		return r.Raw
	}
}

// fieldValue passes a response value through as a Go value; missing values
// become nil.
func fieldValue(r gjson.Result) any {
	if !r.Exists() {
		return nil
	}
	return r.Value()
}

// renderLines renders "<id>: <label>" for every item of data, in API order.
func renderLines(data gjson.Result, label string) string {
	items := data.Array()
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s: %s", fieldText(item.Get("id")), fieldText(item.Get(label))))
	}
	return strings.Join(lines, "\n")
}
