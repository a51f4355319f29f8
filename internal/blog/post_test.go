package blog

import (
	"errors"
	"testing"
	"time"
)

func stringPtr(s string) *string { return &s }

func TestAuthorName(t *testing.T) {
	tests := []struct {
		author Author
		want   string
	}{
		{Author{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{Author{FirstName: "Mary Ann", LastName: "Evans"}, "Mary Ann Evans"},
		{Author{FirstName: "foo", LastName: "bar"}, "foo bar"},
	}
	for _, tt := range tests {
		if got := tt.author.Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}

func TestPostValidate(t *testing.T) {
	valid := Post{
		Title:   "title",
		Content: "content",
		Author:  Author{FirstName: "Ada", LastName: "Lovelace"},
	}

	tests := []struct {
		name         string
		modify       func(*Post)
		wantProperty string
	}{
		{"valid", func(*Post) {}, ""},
		{"missing_title", func(p *Post) { p.Title = "" }, "title"},
		{"blank_content", func(p *Post) { p.Content = "   " }, "content"},
		{"missing_first_name", func(p *Post) { p.Author.FirstName = "" }, "author.firstName"},
		{"missing_last_name", func(p *Post) { p.Author.LastName = "" }, "author.lastName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.modify(&p)
			err := p.Validate()
			if tt.wantProperty == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var blogErr *BlogError
			if !errors.As(err, &blogErr) {
				t.Fatalf("expected BlogError, got %v", err)
			}
			if blogErr.Code() != ErrCodeValidation {
				t.Errorf("expected code %d, got %d", ErrCodeValidation, blogErr.Code())
			}
			if blogErr.Property() != tt.wantProperty {
				t.Errorf("expected property %q, got %q", tt.wantProperty, blogErr.Property())
			}
		})
	}
}

func TestUpdatePostRequestToUpdate(t *testing.T) {
	tests := []struct {
		name    string
		req     UpdatePostRequest
		wantErr bool
	}{
		{
			name: "full_replacement",
			req: UpdatePostRequest{
				ID:      stringPtr("abc"),
				Title:   stringPtr("Mr. Bigglesworth goes to Washington"),
				Content: stringPtr("Ut enim ad minim veniam"),
				Author:  &UpdateAuthorRequest{FirstName: stringPtr("foo"), LastName: stringPtr("bar")},
			},
		},
		{
			name: "partial_without_id",
			req:  UpdatePostRequest{Title: stringPtr("new title")},
		},
		{
			name:    "mismatched_id",
			req:     UpdatePostRequest{ID: stringPtr("other"), Title: stringPtr("new title")},
			wantErr: true,
		},
		{
			name:    "nothing_to_update",
			req:     UpdatePostRequest{ID: stringPtr("abc")},
			wantErr: true,
		},
		{
			name:    "empty_author_object",
			req:     UpdatePostRequest{Author: &UpdateAuthorRequest{}},
			wantErr: true,
		},
		{
			name:    "blank_title",
			req:     UpdatePostRequest{Title: stringPtr(" ")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.ToUpdate("abc")
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPostUpdateApply(t *testing.T) {
	p := Post{
		ID:      "abc",
		Title:   "old title",
		Content: "old content",
		Author:  Author{FirstName: "Ada", LastName: "Lovelace"},
	}

	got := PostUpdate{
		Title:          stringPtr("new title"),
		AuthorLastName: stringPtr("Byron"),
	}.Apply(p)

	if got.ID != "abc" {
		t.Errorf("id changed: %s", got.ID)
	}
	if got.Title != "new title" {
		t.Errorf("title not updated: %s", got.Title)
	}
	if got.Content != "old content" {
		t.Errorf("content should be unchanged, got %s", got.Content)
	}
	if got.Author.Name() != "Ada Byron" {
		t.Errorf("author not updated: %s", got.Author.Name())
	}
}

func TestToResponse(t *testing.T) {
	published := time.Date(2024, 1, 28, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	res := ToResponse(Post{
		ID:        "abc",
		Title:     "title",
		Content:   "content",
		Author:    Author{FirstName: "Ada", LastName: "Lovelace"},
		Published: published,
	})

	if res.Author != "Ada Lovelace" {
		t.Errorf("author = %q", res.Author)
	}
	if res.Published != "2024-01-28T09:00:00Z" {
		t.Errorf("published = %q, want UTC RFC3339", res.Published)
	}

	if list := ToResponses(nil); list == nil || len(list) != 0 {
		t.Errorf("ToResponses(nil) should be an empty non-nil slice, got %#v", list)
	}
}

func TestCreatePostRequestToPost(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p := CreatePostRequest{Title: "t", Content: "c", Author: Author{"a", "b"}}.ToPost(now)
	if !p.Published.Equal(now) {
		t.Errorf("expected published to default to now, got %v", p.Published)
	}

	past := now.AddDate(-1, 0, 0)
	p = CreatePostRequest{Title: "t", Content: "c", Author: Author{"a", "b"}, Published: &past}.ToPost(now)
	if !p.Published.Equal(past) {
		t.Errorf("expected supplied published date, got %v", p.Published)
	}
}
