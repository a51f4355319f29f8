// Package database contains the sqlc generated queries for the postgres store.
//
// Do not edit the generated files. Change internal/database/queries/*.sql (or the
// migrations in internal/store/migrations/postgres) and run `sqlc generate` from the repo root.
package database
