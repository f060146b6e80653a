// Package sqlite provides SQLite implementations of repository interfaces.
package sqlite

import (
	"database/sql"

	"github.com/gpascual/shotbypascual/internal/repository"
)

// NewRepositories creates all SQLite repository implementations.
// The db parameter must be a valid, open database connection with the schema
// already applied (see internal/database).
func NewRepositories(db *sql.DB) (*repository.Repositories, error) {
	if db == nil {
		return nil, repository.ErrNilDatabase
	}

	return &repository.Repositories{
		RateLimits:   NewRateLimitRepository(db),
		Health:       NewHealthRepository(db),
		DatabaseType: repository.DatabaseTypeSQLite,
		Cleanup: func() {
			db.Close()
		},
	}, nil
}
