// Package store persists blog posts.
//
// PostStore is implemented by three backends, selected by the scheme of the connection string:
//
//	postgres:// postgresql://   PostgresStore (pgx pool + sqlc queries, goose migrations)
//	mongodb:// mongodb+srv://   MongoStore (document store, one document per post)
//	sqlite:// file:             SQLiteStore (embedded, for local development and tests)
//
// Stores return ErrNotFound when no post has the requested id and ErrInvalidID when the id
// is not in the format the backend uses (uuid for the sql stores, ObjectID hex for mongo).
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/information-sharing-networks/blog-demo/internal/blog"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrInvalidID = errors.New("invalid post id")
)

// PostStore is the persistence interface used by the HTTP handlers and the test harness.
type PostStore interface {
	// ListPosts returns every post in creation order
	ListPosts(ctx context.Context) ([]blog.Post, error)

	// GetPost returns the post with the given id
	GetPost(ctx context.Context, id string) (blog.Post, error)

	// CreatePost stores a new post and returns it with the id assigned by the store
	CreatePost(ctx context.Context, post blog.Post) (blog.Post, error)

	// CreatePosts inserts a batch of posts and returns the number inserted.
	// The batch is rejected as a whole if any post can't be stored: no posts
	// from a failed batch remain in the store.
	CreatePosts(ctx context.Context, posts []blog.Post) (int64, error)

	// UpdatePost applies the update and returns the updated post
	UpdatePost(ctx context.Context, id string, update blog.PostUpdate) (blog.Post, error)

	// DeletePost removes the post. Returns ErrNotFound if there was nothing to delete
	DeletePost(ctx context.Context, id string) error

	// CountPosts returns the number of stored posts
	CountPosts(ctx context.Context) (int64, error)

	// Truncate removes every post. Calling it on an empty store is not an error.
	Truncate(ctx context.Context) error

	// Ping checks the store is reachable
	Ping(ctx context.Context) error

	// Backend returns the name of the backend (postgres, mongodb, sqlite)
	Backend() string

	Close() error
}

// Options configures the connection to the store.
type Options struct {
	URL string

	// DatabaseName is the mongo database used when the URL does not name one
	DatabaseName string

	// AutoMigrate applies pending schema migrations (and mongo indexes) when the store is opened
	AutoMigrate bool

	MaxConnections  int32
	MinConnections  int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration

	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Open connects to the store named by opts.URL.
func Open(ctx context.Context, opts Options) (PostStore, error) {
	scheme, err := urlScheme(opts.URL)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case "postgres", "postgresql":
		return OpenPostgres(ctx, opts)
	case "mongodb", "mongodb+srv":
		return OpenMongo(ctx, opts)
	case "sqlite", "file":
		return OpenSQLite(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// Migrate applies any pending schema changes to the store named by opts.URL.
func Migrate(ctx context.Context, opts Options) error {
	opts.AutoMigrate = true
	s, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	return s.Close()
}

func urlScheme(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("database URL has no scheme")
	}
	return u.Scheme, nil
}
