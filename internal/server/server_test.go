package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/information-sharing-networks/blog-demo/internal/blog"
	"github.com/information-sharing-networks/blog-demo/internal/config"
	"github.com/information-sharing-networks/blog-demo/internal/store"
)

func testConfig() *config.ServerEnvironment {
	return &config.ServerEnvironment{
		Environment:           "test",
		Host:                  "127.0.0.1",
		LogLevel:              "none",
		ServerShutdownTimeout: 5 * time.Second,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		IdleTimeout:           5 * time.Second,
		HandlerTimeout:        5 * time.Second,
		MaxRequestBodyBytes:   1 << 20,
	}
}

func newTestServer(t *testing.T) (*httptest.Server, store.PostStore) {
	t.Helper()

	s, err := store.Open(context.Background(), store.Options{
		URL:         "sqlite://" + filepath.Join(t.TempDir(), "server.db"),
		AutoMigrate: true,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	srv := NewServer(s, testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, s
}

func do(t *testing.T, method, url, body string, headers map[string]string) *http.Response {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func seed(t *testing.T, s store.PostStore) blog.Post {
	t.Helper()
	p, err := s.CreatePost(context.Background(), blog.Post{
		Title:     "Ten things about Go",
		Content:   "Lorem ipsum dolor sit amet.",
		Author:    blog.Author{FirstName: "Ada", LastName: "Lovelace"},
		Published: time.Date(2024, 1, 28, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return p
}

func TestListPostsEmptyIsArray(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/posts", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Errorf("expected empty array, got %s", raw)
	}
}

func TestGetPostETag(t *testing.T) {
	ts, s := newTestServer(t)
	p := seed(t, s)

	resp := do(t, http.MethodGet, ts.URL+"/posts/"+p.ID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag header")
	}

	var got blog.PostResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode post: %v", err)
	}
	if got.Author != "Ada Lovelace" || got.Published != "2024-01-28T10:00:00Z" {
		t.Errorf("unexpected post: %+v", got)
	}

	resp = do(t, http.MethodGet, ts.URL+"/posts/"+p.ID, "", map[string]string{"If-None-Match": etag})
	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("expected 304 for matching If-None-Match, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPut, ts.URL+"/posts/"+p.ID, `{"title":"changed"}`, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 from update, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, ts.URL+"/posts/"+p.ID, "", map[string]string{"If-None-Match": etag})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 after the post changed, got %d", resp.StatusCode)
	}
	if resp.Header.Get("ETag") == etag {
		t.Error("expected ETag to change after update")
	}
}

func TestPostErrors(t *testing.T) {
	ts, s := newTestServer(t)
	p := seed(t, s)
	unknown := "0b7f4c7e-8a55-4a8f-9a53-8e1d1f2f6c11"

	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		wantCode  int
		wantError blog.ErrorCode
	}{
		{"create missing title", http.MethodPost, "/posts", `{"content":"c","author":{"firstName":"a","lastName":"b"}}`, http.StatusBadRequest, blog.ErrCodeValidation},
		{"create malformed", http.MethodPost, "/posts", `{"title":`, http.StatusBadRequest, blog.ErrCodeMalformedRequest},
		{"get malformed id", http.MethodGet, "/posts/42", "", http.StatusBadRequest, blog.ErrCodeInvalidID},
		{"get unknown id", http.MethodGet, "/posts/" + unknown, "", http.StatusNotFound, blog.ErrCodeNotFound},
		{"update mismatched id", http.MethodPut, "/posts/" + p.ID, `{"id":"` + unknown + `","title":"x"}`, http.StatusBadRequest, blog.ErrCodeValidation},
		{"update nothing", http.MethodPut, "/posts/" + p.ID, `{}`, http.StatusBadRequest, blog.ErrCodeValidation},
		{"update unknown id", http.MethodPut, "/posts/" + unknown, `{"title":"x"}`, http.StatusNotFound, blog.ErrCodeNotFound},
		{"delete malformed id", http.MethodDelete, "/posts/42", "", http.StatusBadRequest, blog.ErrCodeInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, ts.URL+tt.path, tt.body, nil)
			if resp.StatusCode != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, resp.StatusCode)
			}
			var errResp blog.ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if len(errResp.Errors) == 0 || errResp.Errors[0].ErrorCode != tt.wantError {
				t.Errorf("expected error code %d, got %+v", tt.wantError, errResp.Errors)
			}
			if errResp.RequestID == "" {
				t.Error("expected request id in error response")
			}
		})
	}

	got, err := s.GetPost(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("failed to re-read post: %v", err)
	}
	if got.Title != p.Title {
		t.Errorf("rejected updates must not change the post, title is now %q", got.Title)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ts, s := newTestServer(t)
	p := seed(t, s)

	for i := 0; i < 2; i++ {
		resp := do(t, http.MethodDelete, ts.URL+"/posts/"+p.ID, "", nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("delete %d: expected 204, got %d", i+1, resp.StatusCode)
		}
	}
}

func TestInfrastructureRoutes(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		path     string
		wantCode int
		contains string
	}{
		{"/health/live", http.StatusOK, "OK"},
		{"/health/ready", http.StatusOK, `"status":"ready","backend":"sqlite"`},
		{"/version", http.StatusOK, `"backend":"sqlite"`},
		{"/docs/swagger.json", http.StatusOK, `"/posts/{id}"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+tt.path, "", nil)
			if resp.StatusCode != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, resp.StatusCode)
			}
			raw, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(raw), tt.contains) {
				t.Errorf("expected body to contain %s, got %s", tt.contains, raw)
			}
		})
	}
}
