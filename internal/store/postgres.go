package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/information-sharing-networks/blog-demo/internal/blog"
	"github.com/information-sharing-networks/blog-demo/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresStore keeps posts in the posts table using the sqlc generated queries.
type PostgresStore struct {
	pool    *pgxpool.Pool
	queries *database.Queries
	logger  *slog.Logger
}

// OpenPostgres creates the connection pool, checks the database is reachable
// and (when opts.AutoMigrate is set) applies the goose migrations.
func OpenPostgres(ctx context.Context, opts Options) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if opts.MaxConnections > 0 {
		poolConfig.MaxConns = opts.MaxConnections
	}
	if opts.MinConnections > 0 {
		poolConfig.MinConns = opts.MinConnections
	}
	if opts.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = opts.MaxConnIdleTime
	}
	if opts.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = opts.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database via pool: %w", err)
	}

	s := &PostgresStore{
		pool:    pool,
		queries: database.New(pool),
		logger:  opts.logger(),
	}

	if opts.AutoMigrate {
		db := stdlib.OpenDBFromPool(pool)
		err := runMigrations(ctx, db, goose.DialectPostgres, "migrations/postgres", s.logger)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return nil, err
		}
	}

	return s, nil
}

func (s *PostgresStore) Backend() string { return "postgres" }

func (s *PostgresStore) ListPosts(ctx context.Context) ([]blog.Post, error) {
	rows, err := s.queries.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	posts := make([]blog.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, postFromRow(r))
	}
	return posts, nil
}

func (s *PostgresStore) GetPost(ctx context.Context, id string) (blog.Post, error) {
	postID, err := parseUUID(id)
	if err != nil {
		return blog.Post{}, err
	}

	row, err := s.queries.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blog.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return blog.Post{}, fmt.Errorf("failed to get post %s: %w", id, err)
	}
	return postFromRow(row), nil
}

func (s *PostgresStore) CreatePost(ctx context.Context, post blog.Post) (blog.Post, error) {
	row, err := s.queries.CreatePost(ctx, database.CreatePostParams{
		Title:           post.Title,
		Content:         post.Content,
		AuthorFirstName: post.Author.FirstName,
		AuthorLastName:  post.Author.LastName,
		Published:       post.Published,
	})
	if err != nil {
		return blog.Post{}, fmt.Errorf("failed to create post: %w", describePgError(err))
	}
	return postFromRow(row), nil
}

// CreatePosts uses the COPY protocol, so the batch is inserted in a single statement
func (s *PostgresStore) CreatePosts(ctx context.Context, posts []blog.Post) (int64, error) {
	if len(posts) == 0 {
		return 0, nil
	}

	params := make([]database.CreatePostsParams, 0, len(posts))
	for _, p := range posts {
		params = append(params, database.CreatePostsParams{
			Title:           p.Title,
			Content:         p.Content,
			AuthorFirstName: p.Author.FirstName,
			AuthorLastName:  p.Author.LastName,
			Published:       p.Published,
		})
	}

	n, err := s.queries.CreatePosts(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %d posts: %w", len(posts), describePgError(err))
	}
	return n, nil
}

func (s *PostgresStore) UpdatePost(ctx context.Context, id string, update blog.PostUpdate) (blog.Post, error) {
	postID, err := parseUUID(id)
	if err != nil {
		return blog.Post{}, err
	}

	row, err := s.queries.UpdatePost(ctx, database.UpdatePostParams{
		Title:           update.Title,
		Content:         update.Content,
		AuthorFirstName: update.AuthorFirstName,
		AuthorLastName:  update.AuthorLastName,
		ID:              postID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blog.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return blog.Post{}, fmt.Errorf("failed to update post %s: %w", id, describePgError(err))
	}
	return postFromRow(row), nil
}

func (s *PostgresStore) DeletePost(ctx context.Context, id string) error {
	postID, err := parseUUID(id)
	if err != nil {
		return err
	}

	n, err := s.queries.DeletePost(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *PostgresStore) CountPosts(ctx context.Context) (int64, error) {
	n, err := s.queries.CountPosts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Truncate(ctx context.Context) error {
	if err := s.queries.TruncatePosts(ctx); err != nil {
		return fmt.Errorf("failed to truncate posts: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if _, err := s.queries.IsDatabaseRunning(ctx); err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info("database connection closed")
	}
	return nil
}

func postFromRow(r database.Post) blog.Post {
	return blog.Post{
		ID:      r.ID.String(),
		Title:   r.Title,
		Content: r.Content,
		Author: blog.Author{
			FirstName: r.AuthorFirstName,
			LastName:  r.AuthorLastName,
		},
		Published: r.Published.UTC(),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func parseUUID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return u, nil
}

// describePgError adds the constraint name to check violations so the log shows which column was empty
func describePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return fmt.Errorf("%s (constraint %s): %w", pgErr.Code, pgErr.ConstraintName, err)
	}
	return err
}
