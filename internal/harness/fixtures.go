package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/information-sharing-networks/blog-demo/internal/blog"
	"gopkg.in/yaml.v3"
)

// fixturesFile is the layout of a posts fixtures file:
//
//	posts:
//	  - title: Ten things about Go
//	    content: Lorem ipsum dolor sit amet.
//	    author:
//	      firstName: Ada
//	      lastName: Lovelace
//	    published: 2024-01-28T10:00:00Z
type fixturesFile struct {
	Posts []blog.CreatePostRequest `yaml:"posts"`
}

// LoadFixtures reads posts from a YAML fixtures file. Posts without a published date
// are given the time the file was loaded.
func LoadFixtures(path string) ([]blog.Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file: %w", err)
	}
	return ParseFixtures(raw, time.Now())
}

// ParseFixtures decodes fixtures and validates every post.
func ParseFixtures(raw []byte, now time.Time) ([]blog.Post, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var f fixturesFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if len(f.Posts) == 0 {
		return nil, fmt.Errorf("fixtures file contains no posts")
	}

	posts := make([]blog.Post, 0, len(f.Posts))
	for i, req := range f.Posts {
		p := req.ToPost(now)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i+1, err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}
