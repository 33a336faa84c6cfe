package tools

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/yuin/goldmark"
)

// Accepted values of create_new_post's content_format argument.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// listPostsParams is the fixed query of list_posts: the five most recently
// published confirmed posts.
type listPostsParams struct {
	OrderBy   string `url:"order_by"`
	Direction string `url:"direction"`
	Limit     int    `url:"limit"`
	Status    string `url:"status"`
}

var recentConfirmedPosts = listPostsParams{
	OrderBy:   "publish_date",
	Direction: "desc",
	Limit:     5,
	Status:    "confirmed",
}

type postContentParams struct {
	Expand string `url:"expand[]"`
}

// PostContent is the get_post_content result. Absent values are nil and
// marshal as null.
type PostContent struct {
	Title            any `json:"title"`
	Subtitle         any `json:"subtitle"`
	ContentStructure any `json:"content_structure"`
	HTMLTemplate     any `json:"html_template"`
}

// NewPost holds the create_new_post arguments.
type NewPost struct {
	PublicationID string
	Title         string
	Subtitle      string
	Content       string
	Format        string // FormatHTML (default) or FormatMarkdown
}

// CreatedPost is the create_new_post result.
type CreatedPost struct {
	Status string `json:"status"`
	PostID any    `json:"post_id"`
	WebURL any    `json:"web_url"`
}

type createPostBody struct {
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle"`
	Content  postContent `json:"content"`
}

type postContent struct {
	Free channelContent `json:"free"`
}

// channelContent carries one body per delivery channel. All three currently
// get the same HTML.
type channelContent struct {
	Web   string `json:"web"`
	Email string `json:"email"`
	RSS   string `json:"rss"`
}

func postsPath(publicationID string) string {
	return "/publications/" + url.PathEscape(publicationID) + "/posts"
}

func postPath(publicationID, postID string) string {
	return postsPath(publicationID) + "/" + url.PathEscape(postID)
}

// ListPosts renders the latest confirmed posts of a publication as
// "<id>: <title>", one per line. No posts yields an empty string.
func (bt *BeehiivTools) ListPosts(ctx context.Context, publicationID string) (string, error) {
	res := bt.client.Request(ctx, http.MethodGet, postsPath(publicationID), recentConfirmedPosts, nil)
	if err := checkData(res, msgListPosts); err != nil {
		return "", err
	}
	return renderLines(res.Get("data"), "title"), nil
}

// GetPost renders a fixed five-line summary of a post.
func (bt *BeehiivTools) GetPost(ctx context.Context, publicationID, postID string) (string, error) {
	res := bt.client.Request(ctx, http.MethodGet, postPath(publicationID, postID), nil, nil)
	if err := checkData(res, msgFetchPost); err != nil {
		return "", err
	}

	post := res.Get("data")
	return fmt.Sprintf("Title: %s\nSubtitle: %s\nURL: %s\nStatus: %s\nAuthors: %s",
		fieldText(post.Get("title")),
		fieldText(post.Get("subtitle")),
		fieldText(post.Get("web_url")),
		fieldText(post.Get("status")),
		fieldText(post.Get("authors")),
	), nil
}

// GetPostContent fetches a post with its free web content expanded.
func (bt *BeehiivTools) GetPostContent(ctx context.Context, publicationID, postID string) (*PostContent, error) {
	params := postContentParams{Expand: "free_web_content"}
	res := bt.client.Request(ctx, http.MethodGet, postPath(publicationID, postID), params, nil)
	if err := checkData(res, msgFetchPost); err != nil {
		return nil, err
	}

	post := res.Get("data")
	return &PostContent{
		Title:            fieldValue(post.Get("title")),
		Subtitle:         fieldValue(post.Get("subtitle")),
		ContentStructure: fieldValue(post.Get("content_structure")),
		HTMLTemplate:     fieldValue(post.Get("content.free.web")),
	}, nil
}

// CreateNewPost creates a post whose web, email and RSS bodies are all the
// given content.
//
// The request shape has not been verified against a live account.
func (bt *BeehiivTools) CreateNewPost(ctx context.Context, p NewPost) (*CreatedPost, error) {
	html, err := renderContent(p.Content, p.Format)
	if err != nil {
		return nil, &ToolError{Prefix: msgCreatePost, Detail: err.Error()}
	}

	body := createPostBody{
		Title:    p.Title,
		Subtitle: p.Subtitle,
		Content: postContent{
			Free: channelContent{Web: html, Email: html, RSS: html},
		},
	}

	res := bt.client.Request(ctx, http.MethodPost, postsPath(p.PublicationID), nil, body)
	if err := checkData(res, msgCreatePost); err != nil {
		return nil, err
	}

	post := res.Get("data")
	return &CreatedPost{
		Status: "success",
		PostID: fieldValue(post.Get("id")),
		WebURL: fieldValue(post.Get("web_url")),
	}, nil
}

func renderContent(content, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatHTML:
		return content, nil
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(content), &buf); err != nil {
			return "", fmt.Errorf("failed to render markdown: %w", err)
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("unsupported content_format %q (supported: %s, %s)", format, FormatHTML, FormatMarkdown)
	}
}

// HandleListPosts handles the list_posts tool call
func (bt *BeehiivTools) HandleListPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	publicationID, errResult := requireArg(req, "publication_id")
	if errResult != nil {
		return errResult, nil
	}

	text, err := bt.ListPosts(ctx, publicationID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleGetPost handles the get_post tool call
func (bt *BeehiivTools) HandleGetPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	publicationID, errResult := requireArg(req, "publication_id")
	if errResult != nil {
		return errResult, nil
	}
	postID, errResult := requireArg(req, "post_id")
	if errResult != nil {
		return errResult, nil
	}

	text, err := bt.GetPost(ctx, publicationID, postID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleGetPostContent handles the get_post_content tool call.
// Failures come back as {"error": "..."} rather than the four-field object.
func (bt *BeehiivTools) HandleGetPostContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	publicationID, err := req.RequireString("publication_id")
	if err != nil || strings.TrimSpace(publicationID) == "" {
		return jsonErrorResult("publication_id is required"), nil
	}
	postID, err := req.RequireString("post_id")
	if err != nil || strings.TrimSpace(postID) == "" {
		return jsonErrorResult("post_id is required"), nil
	}

	content, err := bt.GetPostContent(ctx, publicationID, postID)
	if err != nil {
		return jsonErrorResult(err.Error()), nil
	}
	return jsonResult(content), nil
}

// HandleCreateNewPost handles the create_new_post tool call
func (bt *BeehiivTools) HandleCreateNewPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p NewPost
	for _, arg := range []struct {
		name string
		dst  *string
	}{
		{"publication_id", &p.PublicationID},
		{"title", &p.Title},
		{"subtitle", &p.Subtitle},
		{"html_content", &p.Content},
	} {
		value, errResult := requireArg(req, arg.name)
		if errResult != nil {
			return errResult, nil
		}
		*arg.dst = value
	}
	p.Format = req.GetString("content_format", FormatHTML)

	created, err := bt.CreateNewPost(ctx, p)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(created), nil
}
