package beehiiv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dghubble/sling"
	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"

	"github.com/reymerekar7/beehiiv-mcp-server/internal/config"
	"github.com/reymerekar7/beehiiv-mcp-server/pkg/logging"
)

// RequestTimeout bounds every outbound call. It is not configurable.
const RequestTimeout = 30 * time.Second

const subsystem = "Beehiiv"

// Client is the request bridge to the beehiiv API.
// It holds only immutable configuration, so one Client can serve any number
// of concurrent tool calls.
type Client struct {
	apiKey    string
	baseURL   string
	userAgent string

	// newHTTPClient builds the client used for exactly one request.
	newHTTPClient func() *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the per-request HTTP client factory. The factory is
// invoked once per Request call.
func WithHTTPClient(factory func() *http.Client) Option {
	return func(c *Client) {
		c.newHTTPClient = factory
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates a bridge from the given configuration.
func NewClient(cfg config.BeehiivConfig, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	client := &Client{
		apiKey:        cfg.APIKey,
		baseURL:       strings.TrimRight(baseURL, "/"),
		newHTTPClient: cleanhttp.DefaultClient,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// BaseURL returns the API endpoint paths are appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request performs one authenticated call against the API.
//
// path is appended to the base URL, params is nil or a struct with `url`
// tags, and body is nil or any JSON-encodable value. Transport failures,
// non-2xx statuses and bodies that are not a JSON object are reported through
// Result.Err; Request never returns a Go error and never retries.
func (c *Client) Request(ctx context.Context, method, path string, params any, body any) *Result {
	requestID := uuid.NewString()
	start := time.Now()

	if method == "" {
		method = http.MethodGet
	}
	method = strings.ToUpper(method)

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	// A fresh client per call: nothing is pooled or reused across requests.
	httpClient := c.newHTTPClient()
	httpClient.Timeout = RequestTimeout
	defer httpClient.CloseIdleConnections()

	s, err := c.newSling(httpClient, method, path)
	if err != nil {
		return c.fail(requestID, method, path, start, err.Error())
	}
	if params != nil {
		s = s.QueryStruct(params)
	}
	if body != nil {
		s = s.BodyJSON(body)
	}

	logging.Debug(subsystem, "request %s: %s %s%s", requestID, method, path, encodeQuery(params))

	req, err := s.Request()
	if err != nil {
		return c.fail(requestID, method, path, start, fmt.Sprintf("failed to build request: %v", err))
	}
	req = req.WithContext(ctx)

	var success, failure json.RawMessage
	resp, err := s.Do(req, &success, &failure)
	if resp == nil {
		if err == nil {
			err = fmt.Errorf("%s %s: no response", method, req.URL.Redacted())
		}
		return c.fail(requestID, method, path, start, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(requestID, method, path, start, statusMessage(method, req.URL, resp, failure))
	}
	if err != nil {
		return c.fail(requestID, method, path, start, fmt.Sprintf("invalid JSON response from %s %s: %v", method, req.URL.Redacted(), err))
	}

	result, message := decodeBody(success)
	if result == nil {
		return c.fail(requestID, method, path, start, fmt.Sprintf("%s %s: %s", method, req.URL.Redacted(), message))
	}

	logging.Debug(subsystem, "request %s: %s %s -> %d in %s", requestID, method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return result
}

func (c *Client) newSling(httpClient *http.Client, method, path string) (*sling.Sling, error) {
	// Base ends with "/" and the path is made relative so the base path
	// (e.g. /v2) is preserved when sling resolves the reference.
	s := sling.New().
		Client(httpClient).
		Base(c.baseURL+"/").
		Set("Authorization", "Bearer "+c.apiKey).
		Set("Content-Type", "application/json").
		Set("Accept", "application/json")
	if c.userAgent != "" {
		s = s.Set("User-Agent", c.userAgent)
	}

	rel := strings.TrimPrefix(path, "/")
	switch method {
	case http.MethodGet:
		return s.Get(rel), nil
	case http.MethodPost:
		return s.Post(rel), nil
	case http.MethodPut:
		return s.Put(rel), nil
	case http.MethodPatch:
		return s.Patch(rel), nil
	case http.MethodDelete:
		return s.Delete(rel), nil
	case http.MethodHead:
		return s.Head(rel), nil
	default:
		return nil, fmt.Errorf("unsupported HTTP method %q", method)
	}
}

func (c *Client) fail(requestID, method, path string, start time.Time, message string) *Result {
	logging.Warn(subsystem, "request %s: %s %s failed after %s: %s", requestID, method, path, time.Since(start).Round(time.Millisecond), message)
	return errorResult(message)
}

// decodeBody turns a 2xx body into a Result. An empty body (204, or a zero
// Content-Length) decodes to an empty object.
func decodeBody(raw json.RawMessage) (*Result, string) {
	if len(raw) == 0 {
		return successResult(nil, map[string]any{}), ""
	}
	if !gjson.ParseBytes(raw).IsObject() {
		return nil, "unexpected response: expected a JSON object"
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Sprintf("invalid JSON response: %v", err)
	}
	return successResult(raw, data), ""
}

// statusMessage builds the error text for a non-2xx response, appending the
// API's own error messages when the body carries them.
func statusMessage(method string, u *url.URL, resp *http.Response, body json.RawMessage) string {
	message := fmt.Sprintf("%s %s returned %s", method, u.Redacted(), resp.Status)
	if detail := apiErrorDetail(body); detail != "" {
		message += ": " + detail
	}
	return message
}

func apiErrorDetail(body json.RawMessage) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	var details []string
	for _, m := range gjson.GetBytes(body, "errors.#.message").Array() {
		if m.String() != "" {
			details = append(details, m.String())
		}
	}
	if len(details) > 0 {
		return strings.Join(details, "; ")
	}
	for _, key := range []string{"message", "error"} {
		if v := gjson.GetBytes(body, key); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func encodeQuery(params any) string {
	if params == nil {
		return ""
	}
	values, err := query.Values(params)
	if err != nil || len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
