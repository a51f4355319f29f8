package harness

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/information-sharing-networks/blog-demo/internal/blog"
	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRejectsBadURLs(t *testing.T) {
	for _, u := range []string{"localhost:8080", "ftp://example.com", "://"} {
		_, err := NewClient(u, time.Second)
		assert.Error(t, err, u)
	}
}

func TestClientSendsRequests(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(http.StatusNoContent))

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c, err := NewClient(server.URL+"/", time.Second)
		require.NoError(t, err)
		ctx := context.Background()

		title := "new title"
		res, err := c.UpdatePost(ctx, "abc", blog.UpdatePostRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, res.StatusCode)

		req := <-requests
		assert.Equal(t, http.MethodPut, req.Request.Method)
		assert.Equal(t, "/posts/abc", req.Request.URL.Path)
		assert.Equal(t, "application/json", req.Request.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"title":"new title"}`, string(req.Body))

		_, err = c.GetPost(ctx, "abc", `"etag"`)
		require.NoError(t, err)
		req = <-requests
		assert.Equal(t, http.MethodGet, req.Request.Method)
		assert.Equal(t, `"etag"`, req.Request.Header.Get("If-None-Match"))

		_, err = c.DeletePost(ctx, "abc")
		require.NoError(t, err)
		req = <-requests
		assert.Equal(t, http.MethodDelete, req.Request.Method)

		_, err = c.CreatePost(ctx, []byte(`{"title":`))
		require.NoError(t, err)
		req = <-requests
		assert.Equal(t, `{"title":`, string(req.Body), "raw bodies are sent unchanged")
	})
}

func TestClientDecodesResponses(t *testing.T) {
	posts := []blog.PostResponse{{ID: "1", Title: "t", Content: "c", Author: "Ada Lovelace", Published: "2024-01-28T10:00:00Z"}}
	handler := httphelpers.HandlerWithJSONResponse(posts, nil)

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c, err := NewClient(server.URL, time.Second)
		require.NoError(t, err)

		res, err := c.ListPosts(context.Background())
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)

		var got []blog.PostResponse
		require.NoError(t, res.DecodeJSON(&got))
		assert.Equal(t, posts, got)
	})
}

func TestClientReady(t *testing.T) {
	notReady, _ := json.Marshal(map[string]string{"status": "not ready"})

	tests := []struct {
		name    string
		handler http.Handler
		wantErr bool
	}{
		{"ready", httphelpers.HandlerWithStatus(http.StatusOK), false},
		{"not ready", httphelpers.HandlerWithResponse(http.StatusServiceUnavailable, nil, notReady), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httphelpers.WithServer(tt.handler, func(server *httptest.Server) {
				c, err := NewClient(server.URL, time.Second)
				require.NoError(t, err)

				err = c.Ready(context.Background())
				if tt.wantErr {
					assert.Error(t, err)
				} else {
					assert.NoError(t, err)
				}
			})
		})
	}
}

func TestClientTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	})

	httphelpers.WithServer(slow, func(server *httptest.Server) {
		c, err := NewClient(server.URL, 50*time.Millisecond)
		require.NoError(t, err)

		_, err = c.ListPosts(context.Background())
		assert.Error(t, err)
	})
}
