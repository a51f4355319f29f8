//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/information-sharing-networks/blog-demo/internal/blog"
	"github.com/information-sharing-networks/blog-demo/internal/harness"
)

func TestPostScenarios(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	env := testEnv.harnessEnv()
	ctx := context.Background()

	for _, sc := range harness.Scenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			sc.Run(ctx, t, env)
		})
	}
}

// the store must be empty after every scenario, including ones that create posts
func TestScenariosLeaveStoreEmpty(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	env := testEnv.harnessEnv()
	ctx := context.Background()

	for _, sc := range harness.Scenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			sc.Run(ctx, t, env)

			count, err := env.Store.CountPosts(ctx)
			if err != nil {
				t.Fatalf("failed to count posts: %v", err)
			}
			if count != 0 {
				t.Errorf("expected an empty store after teardown, found %d posts", count)
			}
		})
	}
}

func TestFixturesAreServed(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	ctx := context.Background()

	posts, err := harness.LoadFixtures("../testdata/posts.yaml")
	if err != nil {
		t.Fatalf("failed to load fixtures: %v", err)
	}

	n, err := harness.InsertPosts(ctx, testEnv.store, posts)
	if err != nil {
		t.Fatalf("failed to insert fixtures: %v", err)
	}
	t.Cleanup(func() {
		_ = harness.TearDown(ctx, testEnv.store)
	})

	res, err := testEnv.client.ListPosts(ctx)
	if err != nil {
		t.Fatalf("GET /posts failed: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.StatusCode, res.Body)
	}

	var got []blog.PostResponse
	if err := res.DecodeJSON(&got); err != nil {
		t.Fatalf("failed to decode posts: %v", err)
	}
	if int64(len(got)) != n {
		t.Fatalf("expected %d posts, got %d", n, len(got))
	}

	titles := make(map[string]bool, len(got))
	for _, p := range got {
		titles[p.Title] = true
	}
	for _, p := range posts {
		if !titles[p.Title] {
			t.Errorf("fixture %q was not listed", p.Title)
		}
	}
}
