package harness

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/information-sharing-networks/blog-demo/internal/blog"
	"github.com/information-sharing-networks/blog-demo/internal/store"
)

// DefaultSeedCount is the number of posts seeded before each scenario
const DefaultSeedCount = 10

// Generator produces synthetic post data.
// A Generator created with a non-zero seed always produces the same sequence of posts.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator returns a generator. seed 0 uses a random seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// NewPostData returns the request body for a new post with every field populated.
// published is a past instant within the last year.
func (g *Generator) NewPostData() blog.CreatePostRequest {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UTC().Truncate(time.Second)
	published := g.faker.DateRange(now.AddDate(-1, 0, 0), now.Add(-time.Minute)).UTC().Truncate(time.Second)

	return blog.CreatePostRequest{
		Title:   g.faker.Sentence(6),
		Content: g.faker.Paragraph(2, 4, 12, " "),
		Author: blog.Author{
			FirstName: g.faker.FirstName(),
			LastName:  g.faker.LastName(),
		},
		Published: &published,
	}
}

// NewPost returns a post ready to be stored
func (g *Generator) NewPost() blog.Post {
	data := g.NewPostData()
	return data.ToPost(g.now())
}

// NewPosts returns count posts
func (g *Generator) NewPosts(count int) []blog.Post {
	posts := make([]blog.Post, 0, count)
	for range count {
		posts = append(posts, g.NewPost())
	}
	return posts
}

// SeedPosts inserts count synthetic posts as a single batch.
// It returns once the store has acknowledged the batch.
func SeedPosts(ctx context.Context, s store.PostStore, gen *Generator, count int) (int64, error) {
	if count < 0 {
		return 0, fmt.Errorf("seed count must not be negative: %d", count)
	}
	if gen == nil {
		gen = NewGenerator(0)
	}

	n, err := s.CreatePosts(ctx, gen.NewPosts(count))
	if err != nil {
		return 0, fmt.Errorf("failed to seed %d posts: %w", count, err)
	}
	return n, nil
}

// InsertPosts stores posts supplied by the caller (e.g from a fixtures file) after validating them.
func InsertPosts(ctx context.Context, s store.PostStore, posts []blog.Post) (int64, error) {
	for i, p := range posts {
		if err := p.Validate(); err != nil {
			return 0, fmt.Errorf("post %d: %w", i+1, err)
		}
	}
	n, err := s.CreatePosts(ctx, posts)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %d posts: %w", len(posts), err)
	}
	return n, nil
}

// TearDown removes every post from the store. It succeeds on an empty store.
func TearDown(ctx context.Context, s store.PostStore) error {
	if err := s.Truncate(ctx); err != nil {
		return fmt.Errorf("teardown failed: %w", err)
	}
	return nil
}
