package tools

import (
	"github.com/reymerekar7/beehiiv-mcp-server/internal/beehiiv"
)

// Fixed prefixes of the caller-facing failure messages.
const (
	msgFetchPublications = "Failed to fetch publications"
	msgListPosts         = "API error"
	msgFetchPost         = "Failed to fetch the post"
	msgCreatePost        = "Failed to create post"

	unknownError = "Unknown error"
)

// ToolError is a failed tool call. Error() renders "<prefix>: <detail>", the
// text handed back to the MCP caller.
type ToolError struct {
	Prefix string
	Detail string
}

func (e *ToolError) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = unknownError
	}
	return e.Prefix + ": " + detail
}

// checkData returns a ToolError unless res succeeded and carries a "data" key.
func checkData(res *beehiiv.Result, prefix string) error {
	if res.Has("data") {
		return nil
	}
	return &ToolError{Prefix: prefix, Detail: failureDetail(res)}
}

// failureDetail picks the most specific explanation available: the bridge
// error, an "error" string in an otherwise successful body, or nothing.
func failureDetail(res *beehiiv.Result) string {
	if res == nil {
		return ""
	}
	if !res.OK() {
		return res.Err
	}
	if e := res.Get("error"); e.Exists() {
		return fieldText(e)
	}
	return ""
}
