// Package repository defines interfaces for data access operations.
// This package provides abstractions for the rate-limit store, allowing
// different backend implementations (SQLite, PostgreSQL) to be swapped
// without changing application code.
package repository

import "errors"

// Common errors returned by repository operations.
var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNilDatabase is returned when a nil database connection is provided.
	ErrNilDatabase = errors.New("nil database connection")
)

// Supported database backends.
const (
	DatabaseTypeSQLite   = "sqlite"
	DatabaseTypePostgres = "postgres"
)

// Repositories holds all repository implementations.
type Repositories struct {
	RateLimits RateLimitRepository
	Health     HealthRepository

	// DatabaseType identifies which backend produced these repositories.
	DatabaseType string

	// Cleanup releases the underlying connection handle.
	Cleanup func()
}
