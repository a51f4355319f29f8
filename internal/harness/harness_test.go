package harness_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/information-sharing-networks/blog-demo/internal/config"
	"github.com/information-sharing-networks/blog-demo/internal/harness"
	"github.com/information-sharing-networks/blog-demo/internal/harness/framework"
	"github.com/information-sharing-networks/blog-demo/internal/server"
	"github.com/information-sharing-networks/blog-demo/internal/store"
)

// newHermeticEnv serves the API from an httptest server backed by a temporary sqlite database
func newHermeticEnv(t *testing.T) *harness.Env {
	t.Helper()

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := store.Open(context.Background(), store.Options{
		URL:         "sqlite://" + filepath.Join(t.TempDir(), "harness.db"),
		AutoMigrate: true,
		Logger:      discard,
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	cfg := &config.ServerEnvironment{
		Environment:           "test",
		ServerShutdownTimeout: 5 * time.Second,
		HandlerTimeout:        10 * time.Second,
		MaxRequestBodyBytes:   1 << 20,
	}
	ts := httptest.NewServer(server.NewServer(s, cfg, discard).Router())
	t.Cleanup(ts.Close)

	client, err := harness.NewClientWithHTTPClient(ts.URL, ts.Client())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return &harness.Env{
		Client:    client,
		Store:     s,
		Generator: harness.NewGenerator(42),
		SeedCount: harness.DefaultSeedCount,
	}
}

func TestScenarios(t *testing.T) {
	env := newHermeticEnv(t)
	ctx := context.Background()

	for _, sc := range harness.Scenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			sc.Run(ctx, t, env)

			count, err := env.Store.CountPosts(ctx)
			if err != nil {
				t.Fatalf("failed to count posts: %v", err)
			}
			if count != 0 {
				t.Errorf("expected teardown to empty the store, %d posts remain", count)
			}
		})
	}
}

func TestScenariosUnderFramework(t *testing.T) {
	env := newHermeticEnv(t)
	ctx := context.Background()

	results := framework.Run(nil, nil, func(c *framework.Context) {
		for _, sc := range harness.Scenarios() {
			c.Run(sc.Name, func(c *framework.Context) {
				sc.Run(ctx, c, env)
			})
		}
	})

	if len(results.Tests) != len(harness.Scenarios()) {
		t.Fatalf("expected %d results, got %d", len(harness.Scenarios()), len(results.Tests))
	}
	for _, f := range results.Failures {
		t.Errorf("%s failed: %v", f.TestID, f.Errors)
	}
}

// recordingT captures failures without stopping the calling test
type recordingT struct {
	errors []string
}

func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, format)
}

func (r *recordingT) FailNow() {
	panic(r)
}

func (r *recordingT) Logf(format string, args ...any) {}

func TestTeardownRunsWhenScenarioFails(t *testing.T) {
	env := newHermeticEnv(t)
	ctx := context.Background()

	// point the client at a closed server so the first request fails
	dead := httptest.NewServer(nil)
	dead.Close()
	client, err := harness.NewClientWithHTTPClient(dead.URL, dead.Client())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	env.Client = client

	rt := &recordingT{}
	func() {
		defer func() {
			if r := recover(); r != nil && r != rt {
				panic(r)
			}
		}()
		harness.Scenarios()[0].Run(ctx, rt, env)
	}()

	if len(rt.errors) == 0 {
		t.Fatal("expected the scenario to fail")
	}
	count, err := env.Store.CountPosts(ctx)
	if err != nil {
		t.Fatalf("failed to count posts: %v", err)
	}
	if count != 0 {
		t.Errorf("expected teardown after failure, %d posts remain", count)
	}
}

func TestSeedAndTearDown(t *testing.T) {
	env := newHermeticEnv(t)
	ctx := context.Background()

	n, err := harness.SeedPosts(ctx, env.Store, env.Generator, 25)
	if err != nil {
		t.Fatalf("SeedPosts failed: %v", err)
	}
	if n != 25 {
		t.Errorf("expected 25 posts seeded, got %d", n)
	}

	for i := 0; i < 2; i++ {
		if err := harness.TearDown(ctx, env.Store); err != nil {
			t.Fatalf("TearDown %d failed: %v", i+1, err)
		}
	}

	count, err := env.Store.CountPosts(ctx)
	if err != nil {
		t.Fatalf("failed to count posts: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty store, got %d posts", count)
	}

	if _, err := harness.SeedPosts(ctx, env.Store, env.Generator, -1); err == nil {
		t.Error("expected negative count to be rejected")
	}
}
