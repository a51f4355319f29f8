//go:build integration

package integration

// Test environment setup and server lifecycle management.
//
// The integration tests start the blog-server HTTP server in-process against a temporary database
// and run the harness scenarios against it over real HTTP.
//
// The backend is chosen by TEST_DATABASE_URL:
//
//	postgres://...  a temporary database is created on that server and dropped afterwards
//	mongodb://...   a temporary database name is used and its posts are deleted afterwards
//	sqlite://...    ignored path, a file in the test temp dir is used
//
// When TEST_DATABASE_URL is not set the local docker postgres (or the github actions service) is used.
//
// By default the server logs are not included in the test output, you can enable them with:
//
//	ENABLE_SERVER_LOGS=true go test -tags=integration -v ./test/integration
//

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/information-sharing-networks/blog-demo/internal/config"
	"github.com/information-sharing-networks/blog-demo/internal/harness"
	"github.com/information-sharing-networks/blog-demo/internal/logger"
	"github.com/information-sharing-networks/blog-demo/internal/server"
	"github.com/information-sharing-networks/blog-demo/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tmpDatabaseName = "tmp_blog_integration_test"

// testEnv provides access to the test store and server for integration tests
type testEnv struct {
	baseURL  string
	cfg      *config.ServerEnvironment
	store    store.PostStore
	client   *harness.Client
	shutdown func()
}

// harnessEnv returns the scenario environment for this server
func (e *testEnv) harnessEnv() *harness.Env {
	return &harness.Env{
		Client:    e.client,
		Store:     e.store,
		Generator: harness.NewGenerator(1),
	}
}

// startInProcessServer starts the blog-server in-process - the returned env has a client for the API
// and a separate store connection for seeding and assertions
func startInProcessServer(t *testing.T) *testEnv {
	t.Helper()

	testEnv := &testEnv{}
	ctx := context.Background()

	t.Log("Starting in-process server...")

	databaseURL, databaseName := setupTestDatabase(t)
	port := findFreePort(t)

	logLevel := logger.ParseLogLevel("none")
	if os.Getenv("ENABLE_SERVER_LOGS") == "true" {
		logLevel = logger.ParseLogLevel("debug")
	}

	testEnvVars := map[string]string{
		"HOST":           "localhost",
		"PORT":           fmt.Sprintf("%d", port),
		"ENVIRONMENT":    "test",
		"LOG_LEVEL":      logLevel.String(),
		"RATE_LIMIT_RPS": "0",
		"DATABASE_URL":   databaseURL,
		"DATABASE_NAME":  databaseName,
		"AUTO_MIGRATE":   "true",
	}

	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	cfg, err := config.NewServerConfig()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	testEnv.cfg = cfg

	appLogger := logger.InitLogger(logLevel, "test")

	opts := store.Options{
		URL:            cfg.DatabaseURL,
		DatabaseName:   cfg.DatabaseName,
		AutoMigrate:    cfg.AutoMigrate,
		MaxConnections: cfg.DBMaxConnections,
		ConnectTimeout: cfg.DBConnectTimeout,
		Logger:         appLogger,
	}

	serverStore, err := store.Open(ctx, opts)
	if err != nil {
		t.Fatalf("Failed to open server store: %v", err)
	}

	// the harness gets its own connection, the server closes its store on shutdown
	opts.AutoMigrate = false
	testEnv.store, err = store.Open(ctx, opts)
	if err != nil {
		t.Fatalf("Failed to open harness store: %v", err)
	}
	t.Cleanup(func() {
		_ = testEnv.store.Close()
	})

	serverInstance := server.NewServer(serverStore, cfg, appLogger)

	serverCtx, serverCancel := context.WithCancel(ctx)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := serverInstance.Start(serverCtx); err != nil {
			serverDone <- err
		}
	}()

	testEnv.shutdown = func() {
		t.Log("Stopping server...")

		serverCancel()

		select {
		case err := <-serverDone:
			if err != nil {
				t.Logf("❌ Server shutdown with error: %v", err)
			} else {
				t.Log("✅ Server shut down gracefully")
			}
		case <-time.After(5 * time.Second):
			t.Log("⚠️ Server shutdown timeout")
		}

		serverInstance.DatabaseShutdown()
	}

	testEnv.baseURL = fmt.Sprintf("http://localhost:%d", port)
	t.Logf("Starting in-process server at %s (%s)", testEnv.baseURL, serverStore.Backend())

	if !waitForServer(t, testEnv.baseURL+"/health/live", 30*time.Second) {
		t.Fatal("Server failed to start within timeout")
	}

	testEnv.client, err = harness.NewClient(testEnv.baseURL, 10*time.Second)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if err := testEnv.client.Ready(ctx); err != nil {
		t.Fatalf("Server is not ready: %v", err)
	}

	t.Log("✅ Server started")
	return testEnv
}

func findFreePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to find free port: %v", err)
	}
	defer listener.Close()

	addr := listener.Addr().(*net.TCPAddr)
	return addr.Port
}

func waitForServer(t *testing.T, url string, timeout time.Duration) bool {
	t.Helper()

	client := &http.Client{Timeout: 1 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// Test database configuration

type databaseConfig struct {
	userAndPassword string
	dbname          string
	host            string
	port            int
}

func (d *databaseConfig) connectionURL() string {
	return fmt.Sprintf("postgres://%s@%s:%d/%s?sslmode=disable",
		d.userAndPassword, d.host, d.port, d.dbname)
}

func localDatabaseConfig() *databaseConfig {
	return &databaseConfig{
		userAndPassword: "blog-dev:blog-dev",
		dbname:          "postgres",
		host:            "localhost",
		port:            15433,
	}
}

func ciDatabaseConfig() *databaseConfig {
	return &databaseConfig{
		userAndPassword: "postgres:postgres",
		dbname:          "postgres",
		host:            "localhost",
		port:            5432,
	}
}

// setupTestDatabase returns the url and database name the server should use.
// The database is empty and is removed when the test completes.
func setupTestDatabase(t *testing.T) (string, string) {
	t.Helper()

	raw := os.Getenv("TEST_DATABASE_URL")
	if raw == "" {
		if os.Getenv("GITHUB_ACTIONS") == "true" {
			raw = ciDatabaseConfig().connectionURL()
		} else {
			raw = localDatabaseConfig().connectionURL()
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("Failed to parse TEST_DATABASE_URL: %v", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		return setupPostgresDatabase(t, u), tmpDatabaseName
	case "mongodb", "mongodb+srv":
		return setupMongoDatabase(t, u)
	case "sqlite", "file":
		return "sqlite://" + filepath.Join(t.TempDir(), "blog.db"), ""
	default:
		t.Fatalf("TEST_DATABASE_URL has unsupported scheme %q", u.Scheme)
		return "", ""
	}
}

// setupPostgresDatabase creates an empty database on the server in u and drops it when the test is complete.
// Migrations are applied by the server store on open.
func setupPostgresDatabase(t *testing.T, u *url.URL) string {
	t.Helper()
	ctx := context.Background()

	admin := *u
	admin.Path = "/postgres"

	// Note: this pool stays open until after the test database is dropped in cleanup
	adminPool, err := pgxpool.New(ctx, admin.String())
	if err != nil {
		t.Fatalf("Unable to create postgres connection pool: %v", err)
	}

	if err := adminPool.Ping(ctx); err != nil {
		t.Fatalf("Can't ping PostgreSQL server %s", config.RedactURL(admin.String()))
	}

	if _, err := adminPool.Exec(ctx, "DROP DATABASE IF EXISTS "+tmpDatabaseName+" WITH (FORCE)"); err != nil {
		t.Fatalf("DROP DATABASE IF EXISTS Failed : %v", err)
	}

	if _, err := adminPool.Exec(ctx, "CREATE DATABASE "+tmpDatabaseName); err != nil {
		t.Fatalf("CREATE DATABASE Failed : %v", err)
	}

	t.Cleanup(func() {
		adminPool.Close()
	})

	t.Cleanup(func() {
		if _, err := adminPool.Exec(ctx, "DROP DATABASE "+tmpDatabaseName+" WITH (FORCE)"); err != nil {
			t.Errorf("Failed to drop test database: %v", err)
		}
	})

	testURL := *u
	testURL.Path = "/" + tmpDatabaseName

	t.Logf("Database ready: %s", tmpDatabaseName)
	return testURL.String()
}

// setupMongoDatabase points the server at a database named after the test.
// Mongo creates databases lazily so there is nothing to create; the posts are deleted on cleanup.
func setupMongoDatabase(t *testing.T, u *url.URL) (string, string) {
	t.Helper()

	name := tmpDatabaseName + "_" + strings.ToLower(strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	if len(name) > 63 {
		name = name[:63]
	}

	testURL := *u
	testURL.Path = "/" + name

	t.Cleanup(func() {
		s, err := store.Open(context.Background(), store.Options{URL: testURL.String()})
		if err != nil {
			t.Errorf("Failed to connect to mongo for cleanup: %v", err)
			return
		}
		defer s.Close()
		if err := harness.TearDown(context.Background(), s); err != nil {
			t.Errorf("Failed to clean up test database: %v", err)
		}
	})

	return testURL.String(), name
}
