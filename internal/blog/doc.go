// blog package defines the blog post record and the request/response types for the /posts API
//
// **types**
// Post is the stored record. The author is stored as a first/last name pair and is always
// rendered in responses as a single display string "FirstName LastName" (see Author.Name).
// The request and response structs are in post.go
//
// **error handling**
// handlers and stores return errors that are mapped to BlogError codes and
// returned to the client in a standard JSON error response.
// Use RespondWithErrorResponse() to create and send the error response.
//
// **caching**
// GET /posts/{id} responses carry a strong ETag computed over the canonical JSON form
// of the post (see etag.go).
package blog
