package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/information-sharing-networks/blog-demo/internal/blog"
)

// DefaultRequestTimeout bounds each request made by the client
const DefaultRequestTimeout = 10 * time.Second

// Client calls the blog API. It returns every response, including error statuses, so callers can assert on them.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON decodes the response body into v
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("response body is not valid JSON (status %d): %w", r.StatusCode, err)
	}
	return nil
}

// NewClient returns a client for the service at baseURL. timeout <= 0 uses DefaultRequestTimeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return NewClientWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTPClient uses the supplied http client (e.g the client of an httptest.Server).
func NewClientWithHTTPClient(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid service URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("service URL must be http or https: %q", baseURL)
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: hc,
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// ListPosts calls GET /posts
func (c *Client) ListPosts(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/posts", nil, nil)
}

// GetPost calls GET /posts/{id}. ifNoneMatch is sent as If-None-Match when not empty.
func (c *Client) GetPost(ctx context.Context, id, ifNoneMatch string) (*Response, error) {
	var headers http.Header
	if ifNoneMatch != "" {
		headers = http.Header{"If-None-Match": []string{ifNoneMatch}}
	}
	return c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, headers)
}

// CreatePost calls POST /posts. body is encoded as JSON unless it is already a []byte.
func (c *Client) CreatePost(ctx context.Context, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/posts", body, nil)
}

// UpdatePost calls PUT /posts/{id}. body is encoded as JSON unless it is already a []byte.
func (c *Client) UpdatePost(ctx context.Context, id string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPut, "/posts/"+url.PathEscape(id), body, nil)
}

// DeletePost calls DELETE /posts/{id}
func (c *Client) DeletePost(ctx context.Context, id string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, nil)
}

// Ready returns an error unless GET /health/ready returns 200
func (c *Client) Ready(ctx context.Context) error {
	res, err := c.do(ctx, http.MethodGet, "/health/ready", nil, nil)
	if err != nil {
		return err
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("service not ready: status %d: %s", res.StatusCode, strings.TrimSpace(string(res.Body)))
	}
	return nil
}

// Version fetches GET /version
func (c *Client) Version(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/version", nil, nil)
}

// ErrorResponse decodes a structured error body
func (r *Response) ErrorResponse() (*blog.ErrorResponse, error) {
	var e blog.ErrorResponse
	if err := r.DecodeJSON(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, headers http.Header) (*Response, error) {
	var reader io.Reader
	if body != nil {
		raw, ok := body.([]byte)
		if !ok {
			var err error
			raw, err = json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request body: %w", err)
			}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}, nil
}
