// Package harness verifies a running blog service end to end.
//
// Each scenario seeds the store with synthetic posts, calls the HTTP API, checks the
// response, re-reads the store directly to confirm the change was persisted and finally
// clears the store. Scenarios are written against the T interface so the same code runs
// under go test (*testing.T) and under blogctl verify (framework.Context).
//
// The store used by the harness is cleared after every scenario: never point it at a
// database holding data you want to keep.
package harness
