// Package handlers provides the HTTP handlers for the blog API (posts.go)
// and the general infrastructure handlers (health, version, docs).
//
// Handlers report failures through blog.RespondWithErrorResponse so every error
// has the same JSON shape.
package handlers
