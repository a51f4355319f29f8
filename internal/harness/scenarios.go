package harness

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/information-sharing-networks/blog-demo/internal/blog"
	"github.com/information-sharing-networks/blog-demo/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// T is the subset of *testing.T used by the scenarios. It is also satisfied by framework.Context.
//
// FailNow must not return: *testing.T exits the goroutine and framework.Context panics.
type T interface {
	Errorf(format string, args ...any)
	FailNow()
	Logf(format string, args ...any)
}

// Env holds what a scenario needs: a client for the service under test and a direct connection to its store.
type Env struct {
	Client    *Client
	Store     store.PostStore
	Generator *Generator

	// SeedCount is the number of posts seeded before each scenario (DefaultSeedCount when <= 0)
	SeedCount int
}

func (e *Env) seedCount() int {
	if e.SeedCount <= 0 {
		return DefaultSeedCount
	}
	return e.SeedCount
}

// Scenario is one end to end check of the API.
type Scenario struct {
	Name string

	// Seed is false for scenarios that need an empty store
	Seed bool

	run func(ctx context.Context, t T, env *Env)
}

// Run executes seed, the scenario body and teardown. Teardown runs even when an assertion fails.
func (sc Scenario) Run(ctx context.Context, t T, env *Env) {
	if env.Generator == nil {
		env.Generator = NewGenerator(0)
	}

	defer func() {
		if err := TearDown(ctx, env.Store); err != nil {
			t.Errorf("%v", err)
		}
	}()

	if sc.Seed {
		n, err := SeedPosts(ctx, env.Store, env.Generator, env.seedCount())
		require.NoError(t, err, "seeding failed")
		require.EqualValues(t, env.seedCount(), n, "store did not acknowledge every seeded post")
	}

	sc.run(ctx, t, env)
}

// Scenarios returns every scenario in the order they should run.
func Scenarios() []Scenario {
	return []Scenario{
		{Name: "list posts", Seed: true, run: listPosts},
		{Name: "list field fidelity", Seed: true, run: listFieldFidelity},
		{Name: "get post by id", Seed: true, run: getPostByID},
		{Name: "create post", Seed: true, run: createPost},
		{Name: "create post missing title", Seed: true, run: createPostMissingTitle},
		{Name: "update post", Seed: true, run: updatePost},
		{Name: "update post mismatched id", Seed: true, run: updatePostMismatchedID},
		{Name: "delete post", Seed: true, run: deletePost},
		{Name: "get unknown post", Seed: true, run: getUnknownPost},
		{Name: "list empty store", Seed: false, run: listEmptyStore},
	}
}

func listPosts(ctx context.Context, t T, env *Env) {
	res, err := env.Client.ListPosts(ctx)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode, "GET /posts: %s", res.Body)

	var items []map[string]any
	require.NoError(t, res.DecodeJSON(&items), "GET /posts must return a JSON array")

	count, err := env.Store.CountPosts(ctx)
	require.NoError(t, err)

	require.NotEmpty(t, items)
	require.Len(t, items, int(count), "list length should match the number of stored posts")

	for i, item := range items {
		for _, field := range []string{"id", "title", "content", "author"} {
			assert.Contains(t, item, field, "post %d is missing %s", i, field)
		}
	}
}

func listFieldFidelity(ctx context.Context, t T, env *Env) {
	first := firstListedPost(ctx, t, env)

	stored, err := env.Store.GetPost(ctx, first.ID)
	require.NoError(t, err, "post %s from the list is not in the store", first.ID)

	assert.Equal(t, stored.Title, first.Title)
	assert.Equal(t, stored.Content, first.Content)
	assert.Equal(t, stored.Author.FirstName+" "+stored.Author.LastName, first.Author)
}

func getPostByID(ctx context.Context, t T, env *Env) {
	stored := firstStoredPost(ctx, t, env)

	res, err := env.Client.GetPost(ctx, stored.ID, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode, "GET /posts/%s: %s", stored.ID, res.Body)

	etag := res.Header.Get("ETag")
	require.NotEmpty(t, etag, "expected an ETag header")

	var got blog.PostResponse
	require.NoError(t, res.DecodeJSON(&got))
	assert.Equal(t, blog.ToResponse(stored), got)

	res, err = env.Client.GetPost(ctx, stored.ID, etag)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotModified, res.StatusCode, "expected 304 when If-None-Match matches")
}

func createPost(ctx context.Context, t T, env *Env) {
	data := env.Generator.NewPostData()

	res, err := env.Client.CreatePost(ctx, data)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode, "POST /posts: %s", res.Body)

	var created blog.PostResponse
	require.NoError(t, res.DecodeJSON(&created))
	require.NotEmpty(t, created.ID, "created post has no id")
	assert.Equal(t, data.Title, created.Title)
	assert.Equal(t, data.Content, created.Content)
	assert.Equal(t, data.Author.FirstName+" "+data.Author.LastName, created.Author)

	stored, err := env.Store.GetPost(ctx, created.ID)
	require.NoError(t, err, "created post %s is not in the store", created.ID)
	assert.Equal(t, data.Title, stored.Title)
	assert.Equal(t, data.Content, stored.Content)
	assert.Equal(t, data.Author.FirstName, stored.Author.FirstName)
	assert.Equal(t, data.Author.LastName, stored.Author.LastName)
}

func createPostMissingTitle(ctx context.Context, t T, env *Env) {
	before, err := env.Store.CountPosts(ctx)
	require.NoError(t, err)

	data := env.Generator.NewPostData()
	data.Title = ""

	res, err := env.Client.CreatePost(ctx, data)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, res.StatusCode, "POST /posts without a title: %s", res.Body)

	errResp, err := res.ErrorResponse()
	require.NoError(t, err)
	require.NotEmpty(t, errResp.Errors)
	assert.Equal(t, blog.ErrCodeValidation, errResp.Errors[0].ErrorCode)
	assert.Equal(t, "title", errResp.Errors[0].Property)

	after, err := env.Store.CountPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a rejected create must not store anything")
}

func updatePost(ctx context.Context, t T, env *Env) {
	existing := firstStoredPost(ctx, t, env)
	data := env.Generator.NewPostData()

	res, err := env.Client.UpdatePost(ctx, existing.ID, blog.UpdatePostRequest{
		ID:      &existing.ID,
		Title:   &data.Title,
		Content: &data.Content,
		Author: &blog.UpdateAuthorRequest{
			FirstName: &data.Author.FirstName,
			LastName:  &data.Author.LastName,
		},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, res.StatusCode, "PUT /posts/%s: %s", existing.ID, res.Body)
	assert.Empty(t, res.Body)

	stored, err := env.Store.GetPost(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, data.Title, stored.Title)
	assert.Equal(t, data.Content, stored.Content)
	assert.Equal(t, data.Author.FirstName, stored.Author.FirstName)
	assert.Equal(t, data.Author.LastName, stored.Author.LastName)
}

func updatePostMismatchedID(ctx context.Context, t T, env *Env) {
	posts, err := env.Store.ListPosts(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(posts), 2, "need two posts")

	target, other := posts[0], posts[1]
	title := "must not be applied"

	res, err := env.Client.UpdatePost(ctx, target.ID, blog.UpdatePostRequest{
		ID:    &other.ID,
		Title: &title,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, res.StatusCode, "PUT with mismatched id: %s", res.Body)

	stored, err := env.Store.GetPost(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.Title, stored.Title, "a rejected update must not change the post")
}

func deletePost(ctx context.Context, t T, env *Env) {
	existing := firstStoredPost(ctx, t, env)

	res, err := env.Client.DeletePost(ctx, existing.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, res.StatusCode, "DELETE /posts/%s: %s", existing.ID, res.Body)
	assert.Empty(t, res.Body)

	_, err = env.Store.GetPost(ctx, existing.ID)
	require.Error(t, err, "deleted post is still in the store")
	assert.True(t, errors.Is(err, store.ErrNotFound), "expected not found, got %v", err)
}

func getUnknownPost(ctx context.Context, t T, env *Env) {
	id := UnknownID(env.Store.Backend())

	res, err := env.Client.GetPost(ctx, id, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, res.StatusCode, "GET /posts/%s: %s", id, res.Body)

	errResp, err := res.ErrorResponse()
	require.NoError(t, err)
	require.NotEmpty(t, errResp.Errors)
	assert.Equal(t, blog.ErrCodeNotFound, errResp.Errors[0].ErrorCode)
}

func listEmptyStore(ctx context.Context, t T, env *Env) {
	res, err := env.Client.ListPosts(ctx)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var items []blog.PostResponse
	require.NoError(t, res.DecodeJSON(&items))
	require.NotNil(t, items, "an empty store should list as [] not null")
	assert.Empty(t, items)
}

// UnknownID returns a well formed id that is not in the store
func UnknownID(backend string) string {
	if backend == "mongodb" {
		return primitive.NewObjectID().Hex()
	}
	return uuid.NewString()
}

func firstListedPost(ctx context.Context, t T, env *Env) blog.PostResponse {
	res, err := env.Client.ListPosts(ctx)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode, "GET /posts: %s", res.Body)

	var items []blog.PostResponse
	require.NoError(t, res.DecodeJSON(&items))
	require.NotEmpty(t, items, "GET /posts returned no posts")
	return items[0]
}

func firstStoredPost(ctx context.Context, t T, env *Env) blog.Post {
	posts, err := env.Store.ListPosts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, posts, "store is empty")
	return posts[0]
}
