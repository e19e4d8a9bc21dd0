// Package migrations contains all database migration files.
// Each migration file uses init() to call migration.Register().
// The package is imported for side effects by the CLI so every
// migration is registered at startup.
package migrations
