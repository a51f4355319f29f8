// Package server provides the HTTP server for the blog API.
//
// the server is configured through environment variables
// (see internal/config/config.go for details)
//
// Routes:
//   - /posts and /posts/{id}: the blog post resource (handlers/posts.go)
//   - /health/live, /health/ready, /version, /docs/swagger.json
//
// middleware is in internal/server/middleware
package server
