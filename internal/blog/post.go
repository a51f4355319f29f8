package blog

// post.go defines the blog post record and the request/response types for the /posts API

import (
	"fmt"
	"strings"
	"time"
)

// Author is the structured author name stored with each post.
type Author struct {
	FirstName string `json:"firstName" yaml:"firstName" example:"Ada"`
	LastName  string `json:"lastName" yaml:"lastName" example:"Lovelace"`
}

// Name returns the display form of the author: first and last name separated by a single space.
func (a Author) Name() string {
	return a.FirstName + " " + a.LastName
}

// Post is a blog post as held in the store.
type Post struct {
	// ID is assigned by the store when the post is created and never changes
	ID        string
	Title     string
	Content   string
	Author    Author
	Published time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields required before a post can be stored.
func (p Post) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(p.Content) == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(p.Author.FirstName) == "" {
		missing = append(missing, "author.firstName")
	}
	if strings.TrimSpace(p.Author.LastName) == "" {
		missing = append(missing, "author.lastName")
	}
	if len(missing) > 0 {
		return NewValidationError(missing[0], fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", ")))
	}
	return nil
}

// PostUpdate holds the fields supplied in an update request. nil fields are left unchanged.
type PostUpdate struct {
	Title           *string
	Content         *string
	AuthorFirstName *string
	AuthorLastName  *string
}

// IsEmpty reports whether the update would change nothing.
func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.AuthorFirstName == nil && u.AuthorLastName == nil
}

// Apply returns a copy of p with the update applied.
func (u PostUpdate) Apply(p Post) Post {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.AuthorFirstName != nil {
		p.Author.FirstName = *u.AuthorFirstName
	}
	if u.AuthorLastName != nil {
		p.Author.LastName = *u.AuthorLastName
	}
	return p
}

// PostResponse is the public representation of a post.
// The author is rendered as a single display string.
type PostResponse struct {
	ID        string `json:"id" example:"0b7f4c7e-8a55-4a8f-9a53-8e1d1f2f6c11"`
	Title     string `json:"title" example:"Ten things about Go"`
	Content   string `json:"content" example:"Lorem ipsum dolor sit amet."`
	Author    string `json:"author" example:"Ada Lovelace"`
	Published string `json:"published" example:"2024-01-28T10:00:00Z"`
}

// ToResponse converts a stored post to its public representation.
func ToResponse(p Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author.Name(),
		Published: p.Published.UTC().Format(time.RFC3339),
	}
}

// ToResponses converts a list of posts. The result is never nil so an empty store encodes as [].
func ToResponses(posts []Post) []PostResponse {
	res := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		res = append(res, ToResponse(p))
	}
	return res
}

// CreatePostRequest is the request body for POST /posts
type CreatePostRequest struct {
	Title   string `json:"title" yaml:"title" example:"Ten things about Go"`
	Content string `json:"content" yaml:"content" example:"Lorem ipsum dolor sit amet."`
	Author  Author `json:"author" yaml:"author"`

	// Published is optional and defaults to the time the post is created
	Published *time.Time `json:"published,omitempty" yaml:"published,omitempty" example:"2024-01-28T10:00:00Z"`
}

// ToPost converts the request to a post, defaulting the published date to now.
func (r CreatePostRequest) ToPost(now time.Time) Post {
	published := now
	if r.Published != nil && !r.Published.IsZero() {
		published = *r.Published
	}
	return Post{
		Title:     r.Title,
		Content:   r.Content,
		Author:    r.Author,
		Published: published.UTC(),
	}
}

// UpdateAuthorRequest is the author part of an update request. Both names are optional.
type UpdateAuthorRequest struct {
	FirstName *string `json:"firstName,omitempty" example:"Ada"`
	LastName  *string `json:"lastName,omitempty" example:"Lovelace"`
}

// UpdatePostRequest is the request body for PUT /posts/{id}.
//
// ID is optional, but when supplied it must match the id in the request path.
type UpdatePostRequest struct {
	ID      *string              `json:"id,omitempty" example:"0b7f4c7e-8a55-4a8f-9a53-8e1d1f2f6c11"`
	Title   *string              `json:"title,omitempty" example:"Ten more things about Go"`
	Content *string              `json:"content,omitempty" example:"Ut enim ad minim veniam."`
	Author  *UpdateAuthorRequest `json:"author,omitempty"`
}

// ToUpdate validates the request against the path id and converts it to a PostUpdate.
func (r UpdatePostRequest) ToUpdate(pathID string) (PostUpdate, error) {
	if r.ID != nil && *r.ID != pathID {
		return PostUpdate{}, NewValidationError("id",
			fmt.Sprintf("request path id (%s) and request body id (%s) must match", pathID, *r.ID))
	}

	u := PostUpdate{
		Title:   r.Title,
		Content: r.Content,
	}
	if r.Author != nil {
		u.AuthorFirstName = r.Author.FirstName
		u.AuthorLastName = r.Author.LastName
	}

	if u.IsEmpty() {
		return PostUpdate{}, NewValidationError("", "no updatable fields supplied (title, content, author.firstName, author.lastName)")
	}

	fields := []struct {
		name  string
		value *string
	}{
		{"title", u.Title},
		{"content", u.Content},
		{"author.firstName", u.AuthorFirstName},
		{"author.lastName", u.AuthorLastName},
	}
	for _, f := range fields {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return PostUpdate{}, NewValidationError(f.name, fmt.Sprintf("%s must not be empty", f.name))
		}
	}
	return u, nil
}
