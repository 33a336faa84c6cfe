package beehiiv

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reymerekar7/beehiiv-mcp-server/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.BeehiivConfig{APIKey: "test-key", BaseURL: srv.URL + "/v2"}, opts...)
	require.NoError(t, err)
	return client, srv
}

// roundTripFunc lets a test stand in for the network.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.BeehiivConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClient_RejectsRelativeBaseURL(t *testing.T) {
	_, err := NewClient(config.BeehiivConfig{APIKey: "k", BaseURL: "api.beehiiv.com/v2"})
	assert.ErrorIs(t, err, ErrInvalidBaseURL)
}

func TestNewClient_DefaultsBaseURL(t *testing.T) {
	client, err := NewClient(config.BeehiivConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBaseURL, client.BaseURL())
}

func TestRequest_InjectsHeadersAndAppendsPath(t *testing.T) {
	var got *http.Request
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[]}`)
	}, WithUserAgent("beehiiv-mcp/test"))

	res := client.Request(context.Background(), http.MethodGet, "/publications", nil, nil)
	require.True(t, res.OK(), res.Err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/v2/publications", got.URL.Path)
	assert.Equal(t, "Bearer test-key", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "beehiiv-mcp/test", got.Header.Get("User-Agent"))
}

func TestRequest_SuccessReturnsBodyUnchanged(t *testing.T) {
	body := `{"data":{"id":"post_1","title":"Hello","authors":["A","B"],"stats":{"opens":3}},"limit":5,"extra":null}`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	})

	res := client.Request(context.Background(), http.MethodGet, "/publications/pub_1/posts/post_1", nil, nil)
	require.True(t, res.OK(), res.Err)

	var want map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &want))
	assert.Equal(t, want, res.Data)
	assert.Equal(t, want, res.Map())
	assert.True(t, res.Has("data"))
	assert.True(t, res.Has("extra"))
	assert.Equal(t, "Hello", res.Get("data.title").String())
	assert.False(t, res.Get("data.content.free.web").Exists())
}

func TestRequest_EncodesQueryParams(t *testing.T) {
	type params struct {
		OrderBy string `url:"order_by"`
		Limit   int    `url:"limit"`
		Expand  string `url:"expand[]"`
	}

	var rawQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		io.WriteString(w, `{}`)
	})

	res := client.Request(context.Background(), http.MethodGet, "/x", params{OrderBy: "publish_date", Limit: 5, Expand: "free_web_content"}, nil)
	require.True(t, res.OK(), res.Err)

	q, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	assert.Equal(t, "publish_date", q.Get("order_by"))
	assert.Equal(t, "5", q.Get("limit"))
	assert.Equal(t, "free_web_content", q.Get("expand[]"))
}

func TestRequest_SendsJSONBody(t *testing.T) {
	var received map[string]any
	var method string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"data":{"id":"p1"}}`)
	})

	res := client.Request(context.Background(), http.MethodPost, "/publications/pub_1/posts", nil, map[string]any{"title": "T"})
	require.True(t, res.OK(), res.Err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, map[string]any{"title": "T"}, received)
}

func TestRequest_NonSuccessStatusBecomesErrorMarker(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"not found with api errors", http.StatusNotFound, `{"errors":[{"message":"Post not found"}]}`, "Post not found"},
		{"unauthorized with message", http.StatusUnauthorized, `{"message":"Invalid API key"}`, "Invalid API key"},
		{"server error html", http.StatusBadGateway, `<html>bad gateway</html>`, ""},
		{"empty body", http.StatusInternalServerError, ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			res := client.Request(context.Background(), http.MethodGet, "/publications", nil, nil)
			assert.False(t, res.OK())
			assert.Nil(t, res.Data, "no partially decoded body on failure")

			marker := res.Map()
			require.Len(t, marker, 1)
			msg, ok := marker["error"].(string)
			require.True(t, ok)
			assert.NotEmpty(t, msg)
			assert.Contains(t, msg, http.StatusText(tt.status))
			if tt.wantDetail != "" {
				assert.Contains(t, msg, tt.wantDetail)
			}
		})
	}
}

func TestRequest_TransportFailureBecomesErrorMarker(t *testing.T) {
	client, err := NewClient(config.BeehiivConfig{APIKey: "k", BaseURL: "http://beehiiv.invalid/v2"},
		WithHTTPClient(func() *http.Client {
			return &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			})}
		}))
	require.NoError(t, err)

	res := client.Request(context.Background(), http.MethodGet, "/publications", nil, nil)
	assert.False(t, res.OK())
	assert.Equal(t, map[string]any{"error": res.Err}, res.Map())
	assert.Contains(t, res.Err, "connection refused")
}

func TestRequest_ClosedServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client, err := NewClient(config.BeehiivConfig{APIKey: "k", BaseURL: baseURL})
	require.NoError(t, err)

	res := client.Request(context.Background(), http.MethodGet, "/publications", nil, nil)
	assert.False(t, res.OK())
	assert.NotEmpty(t, res.Err)
}

func TestRequest_CancelledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := client.Request(ctx, http.MethodGet, "/publications", nil, nil)
	assert.False(t, res.OK())
	assert.Contains(t, res.Err, "context canceled")
}

func TestRequest_NonObjectBodyIsAnError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[1,2,3]`)
	})

	res := client.Request(context.Background(), http.MethodGet, "/publications", nil, nil)
	assert.False(t, res.OK())
	assert.Contains(t, res.Err, "expected a JSON object")
}

func TestRequest_NoContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res := client.Request(context.Background(), http.MethodDelete, "/publications/pub_1/posts/p1", nil, nil)
	require.True(t, res.OK(), res.Err)
	assert.Empty(t, res.Data)
	assert.False(t, res.Has("data"))
}

func TestRequest_UnsupportedMethod(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	res := client.Request(context.Background(), "BREW", "/coffee", nil, nil)
	assert.False(t, res.OK())
	assert.Contains(t, res.Err, "unsupported HTTP method")
}

func TestRequest_FreshHTTPClientPerCall(t *testing.T) {
	var built int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}, WithHTTPClient(func() *http.Client {
		atomic.AddInt32(&built, 1)
		return &http.Client{}
	}))

	for i := 0; i < 3; i++ {
		require.True(t, client.Request(context.Background(), http.MethodGet, "/publications", nil, nil).OK())
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&built))
}

func TestRequest_ConcurrentCallsAreIndependent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fail") == "true" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		io.WriteString(w, `{"data":"ok"}`)
	})

	type flag struct {
		Fail bool `url:"fail"`
	}

	results := make(chan *Result, 20)
	for i := 0; i < 20; i++ {
		go func(fail bool) {
			results <- client.Request(context.Background(), http.MethodGet, "/x", flag{Fail: fail}, nil)
		}(i%2 == 0)
	}

	var ok, failed int
	for i := 0; i < 20; i++ {
		if (<-results).OK() {
			ok++
		} else {
			failed++
		}
	}
	assert.Equal(t, 10, ok)
	assert.Equal(t, 10, failed)
}
