// Package integration contains end-to-end tests for the blog API server.
//
// Each test starts the server in-process against a temporary database and runs the
// harness scenarios over HTTP, checking both the responses and what ended up in the store.
//
// The scenarios themselves live in internal/harness and are also run by blogctl verify
// against a deployed service. Failures in the store or handler packages will cascade
// here - fix those first.
package integration
