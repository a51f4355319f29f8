package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/information-sharing-networks/blog-demo/internal/blog"
	"github.com/information-sharing-networks/blog-demo/internal/logger"
	"github.com/information-sharing-networks/blog-demo/internal/store"
)

// PostHandler serves the /posts resource.
type PostHandler struct {
	store store.PostStore
	now   func() time.Time
}

func NewPostHandler(s store.PostStore) *PostHandler {
	return &PostHandler{
		store: s,
		now:   time.Now,
	}
}

// HandleListPosts godoc
//
//	@Summary		List posts
//	@Description	Returns every post in creation order.
//	@Description
//	@Description	The response is a bare JSON array (empty when there are no posts).
//	@Tags			Posts
//	@Produce		json
//	@Success		200	{array}		blog.PostResponse
//	@Failure		500	{object}	blog.ErrorResponse
//	@Router			/posts [get]
func (h *PostHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context())
	if err != nil {
		blog.RespondWithErrorResponse(w, r, blog.WrapInternalError(err, "failed to list posts"))
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.Int("post_count", len(posts)))
	blog.RespondWithJSONPayload(w, http.StatusOK, blog.ToResponses(posts))
}

// HandleGetPost godoc
//
//	@Summary		Get a post
//	@Description	Returns a single post.
//	@Description
//	@Description	The response carries an ETag. Send it back in If-None-Match to get a 304 when the post is unchanged.
//	@Tags			Posts
//	@Produce		json
//	@Param			id				path		string	true	"Post id"
//	@Param			If-None-Match	header		string	false	"ETag from a previous response"
//	@Success		200				{object}	blog.PostResponse
//	@Success		304				"Not modified"
//	@Failure		400				{object}	blog.ErrorResponse	"Malformed post id"
//	@Failure		404				{object}	blog.ErrorResponse	"Post not found"
//	@Router			/posts/{id} [get]
func (h *PostHandler) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	logger.ContextWithLogAttrs(r.Context(), slog.String("post_id", id))

	post, err := h.store.GetPost(r.Context(), id)
	if err != nil {
		blog.RespondWithErrorResponse(w, r, mapStoreError(err, id))
		return
	}

	res := blog.ToResponse(post)
	etag, err := blog.ETag(res)
	if err != nil {
		blog.RespondWithErrorResponse(w, r, blog.WrapInternalError(err, "failed to compute etag"))
		return
	}

	w.Header().Set("ETag", etag)
	if blog.ETagMatches(r.Header.Get("If-None-Match"), etag) {
		blog.RespondWithStatusCodeOnly(w, http.StatusNotModified)
		return
	}

	blog.RespondWithJSONPayload(w, http.StatusOK, res)
}

// HandleCreatePost godoc
//
//	@Summary		Create a post
//	@Description	title, content, author.firstName and author.lastName are required.
//	@Description	published is optional and defaults to the time the post is created.
//	@Tags			Posts
//	@Accept			json
//	@Produce		json
//	@Param			post	body		blog.CreatePostRequest	true	"The post to create"
//	@Success		201		{object}	blog.PostResponse
//	@Failure		400		{object}	blog.ErrorResponse	"Malformed request or missing field"
//	@Router			/posts [post]
func (h *PostHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req blog.CreatePostRequest
	if err := decodeJSONBody(r, &req); err != nil {
		blog.RespondWithErrorResponse(w, r, err)
		return
	}

	post := req.ToPost(h.now())
	if err := post.Validate(); err != nil {
		blog.RespondWithErrorResponse(w, r, err)
		return
	}

	created, err := h.store.CreatePost(r.Context(), post)
	if err != nil {
		blog.RespondWithErrorResponse(w, r, blog.WrapInternalError(err, "failed to create post"))
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.String("post_id", created.ID))
	w.Header().Set("Location", "/posts/"+created.ID)
	blog.RespondWithJSONPayload(w, http.StatusCreated, blog.ToResponse(created))
}

// HandleUpdatePost godoc
//
//	@Summary		Update a post
//	@Description	Updates the supplied fields (title, content, author.firstName, author.lastName). Omitted fields are left unchanged.
//	@Description
//	@Description	The body may include the post id, in which case it must match the id in the path.
//	@Tags			Posts
//	@Accept			json
//	@Param			id		path	string					true	"Post id"
//	@Param			post	body	blog.UpdatePostRequest	true	"Fields to update"
//	@Success		204		"Post updated"
//	@Failure		400		{object}	blog.ErrorResponse	"Malformed request, mismatched id or no fields to update"
//	@Failure		404		{object}	blog.ErrorResponse	"Post not found"
//	@Router			/posts/{id} [put]
func (h *PostHandler) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	logger.ContextWithLogAttrs(r.Context(), slog.String("post_id", id))

	var req blog.UpdatePostRequest
	if err := decodeJSONBody(r, &req); err != nil {
		blog.RespondWithErrorResponse(w, r, err)
		return
	}

	update, err := req.ToUpdate(id)
	if err != nil {
		blog.RespondWithErrorResponse(w, r, err)
		return
	}

	if _, err := h.store.UpdatePost(r.Context(), id, update); err != nil {
		blog.RespondWithErrorResponse(w, r, mapStoreError(err, id))
		return
	}

	blog.RespondWithStatusCodeOnly(w, http.StatusNoContent)
}

// HandleDeletePost godoc
//
//	@Summary		Delete a post
//	@Description	Deleting a post that does not exist also returns 204.
//	@Tags			Posts
//	@Param			id	path	string	true	"Post id"
//	@Success		204	"Post deleted"
//	@Failure		400	{object}	blog.ErrorResponse	"Malformed post id"
//	@Router			/posts/{id} [delete]
func (h *PostHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	logger.ContextWithLogAttrs(r.Context(), slog.String("post_id", id))

	err := h.store.DeletePost(r.Context(), id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		blog.RespondWithErrorResponse(w, r, mapStoreError(err, id))
		return
	}
	if err != nil {
		logger.ContextWithLogAttrs(r.Context(), slog.Bool("already_deleted", true))
	}

	blog.RespondWithStatusCodeOnly(w, http.StatusNoContent)
}

// mapStoreError converts store errors to the blog error returned to the client
func mapStoreError(err error, id string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return blog.NewNotFoundError(id)
	case errors.Is(err, store.ErrInvalidID):
		return blog.NewInvalidIDError(id)
	default:
		return blog.WrapInternalError(err, fmt.Sprintf("failed to access post %s", id))
	}
}

// decodeJSONBody decodes the request body into dst.
// Bodies cut off by the RequestSizeLimit middleware are reported as too large.
func decodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return blog.NewMalformedRequestError("request body is empty")
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return blog.NewRequestTooLargeError(
				fmt.Sprintf("request body exceeds the %d byte limit", maxBytesErr.Limit))
		}
		return blog.WrapMalformedRequestError(err, "request body is not valid JSON")
	}
	return nil
}
