package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/information-sharing-networks/blog-demo/internal/blog"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	sqliteBusyTimeoutMS   = 5000
	sqliteMaxOpenConns    = 1
	sqliteConnMaxLifetime = 5 * time.Minute
)

const postColumns = "id, created_at, updated_at, title, content, author_first_name, author_last_name, published"

// SQLiteStore keeps posts in a local SQLite file. Timestamps are stored as RFC3339Nano text
// and posts are listed in insertion (rowid) order.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// OpenSQLite opens (creating if needed) the database file named by opts.URL.
// Accepted forms are sqlite:///abs/path.db, sqlite://relative.db and file:path.db.
func OpenSQLite(ctx context.Context, opts Options) (*SQLiteStore, error) {
	path, err := sqlitePath(opts.URL)
	if err != nil {
		return nil, err
	}

	// busy_timeout is per connection, so it also goes in the dsn for connections opened later
	dsn := (&url.URL{
		Scheme:   "file",
		Path:     path,
		RawQuery: fmt.Sprintf("_pragma=busy_timeout(%d)", sqliteBusyTimeoutMS),
	}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	if err := configureSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteStore{
		db:     db,
		path:   path,
		logger: opts.logger(),
		now:    time.Now,
	}

	if opts.AutoMigrate {
		if err := runMigrations(ctx, db, goose.DialectSQLite3, "migrations/sqlite", s.logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

func sqlitePath(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse sqlite URL: %w", err)
	}

	var path string
	switch {
	case u.Opaque != "":
		path = u.Opaque
	default:
		path = u.Host + u.Path
	}
	if path == "" {
		return "", fmt.Errorf("sqlite URL %q has no file path", raw)
	}
	return path, nil
}

func configureSQLite(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", sqliteBusyTimeoutMS),
	}
	for _, stmt := range pragmas {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to configure sqlite (%s): %w", stmt, err)
		}
	}

	// single writer
	db.SetMaxOpenConns(sqliteMaxOpenConns)
	db.SetMaxIdleConns(sqliteMaxOpenConns)
	db.SetConnMaxLifetime(sqliteConnMaxLifetime)
	return nil
}

func (s *SQLiteStore) Backend() string { return "sqlite" }

func (s *SQLiteStore) ListPosts(ctx context.Context) ([]blog.Post, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+postColumns+" FROM posts ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []blog.Post{}
	for rows.Next() {
		p, err := scanSQLitePost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *SQLiteStore) GetPost(ctx context.Context, id string) (blog.Post, error) {
	if _, err := parseUUID(id); err != nil {
		return blog.Post{}, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	p, err := scanSQLitePost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return blog.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return blog.Post{}, fmt.Errorf("failed to get post %s: %w", id, err)
	}
	return p, nil
}

func (s *SQLiteStore) CreatePost(ctx context.Context, post blog.Post) (blog.Post, error) {
	created, err := s.insert(ctx, s.db, post)
	if err != nil {
		return blog.Post{}, fmt.Errorf("failed to create post: %w", err)
	}
	return created, nil
}

func (s *SQLiteStore) CreatePosts(ctx context.Context, posts []blog.Post) (int64, error) {
	if len(posts) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, p := range posts {
		if _, err := s.insert(ctx, tx, p); err != nil {
			return 0, fmt.Errorf("failed to insert post %d of %d: %w", i+1, len(posts), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch insert: %w", err)
	}
	return int64(len(posts)), nil
}

type sqliteExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) insert(ctx context.Context, db sqliteExecer, post blog.Post) (blog.Post, error) {
	now := s.now().UTC()
	post.ID = uuid.NewString()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Published = post.Published.UTC()

	_, err := db.ExecContext(ctx,
		"INSERT INTO posts ("+postColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		post.ID,
		formatSQLiteTime(post.CreatedAt),
		formatSQLiteTime(post.UpdatedAt),
		post.Title,
		post.Content,
		post.Author.FirstName,
		post.Author.LastName,
		formatSQLiteTime(post.Published),
	)
	if err != nil {
		return blog.Post{}, err
	}
	return post, nil
}

func (s *SQLiteStore) UpdatePost(ctx context.Context, id string, update blog.PostUpdate) (blog.Post, error) {
	if _, err := parseUUID(id); err != nil {
		return blog.Post{}, err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE posts
SET title = coalesce(?, title),
    content = coalesce(?, content),
    author_first_name = coalesce(?, author_first_name),
    author_last_name = coalesce(?, author_last_name),
    updated_at = ?
WHERE id = ?`,
		nullString(update.Title),
		nullString(update.Content),
		nullString(update.AuthorFirstName),
		nullString(update.AuthorLastName),
		formatSQLiteTime(s.now().UTC()),
		id,
	)
	if err != nil {
		return blog.Post{}, fmt.Errorf("failed to update post %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return blog.Post{}, fmt.Errorf("failed to update post %s: %w", id, err)
	}
	if n == 0 {
		return blog.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.GetPost(ctx, id)
}

func (s *SQLiteStore) DeletePost(ctx context.Context, id string) error {
	if _, err := parseUUID(id); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

// Truncate deletes every row. SQLite has no TRUNCATE statement.
func (s *SQLiteStore) Truncate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM posts"); err != nil {
		return fmt.Errorf("failed to truncate posts: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type sqliteScanner interface {
	Scan(dest ...any) error
}

func scanSQLitePost(row sqliteScanner) (blog.Post, error) {
	var (
		p                             blog.Post
		createdAt, updatedAt, publish string
	)
	if err := row.Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
		&p.Title,
		&p.Content,
		&p.Author.FirstName,
		&p.Author.LastName,
		&publish,
	); err != nil {
		return blog.Post{}, err
	}

	var err error
	if p.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
		return blog.Post{}, err
	}
	if p.UpdatedAt, err = parseSQLiteTime(updatedAt); err != nil {
		return blog.Post{}, err
	}
	if p.Published, err = parseSQLiteTime(publish); err != nil {
		return blog.Post{}, err
	}
	return p, nil
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
