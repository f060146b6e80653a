package sqlite

import (
	"context"
	"database/sql"

	"github.com/gpascual/shotbypascual/internal/repository"
)

// HealthRepository implements repository.HealthRepository for SQLite.
type HealthRepository struct {
	db *sql.DB
}

// NewHealthRepository creates a new SQLite health repository.
func NewHealthRepository(db *sql.DB) *HealthRepository {
	return &HealthRepository{db: db}
}

// Ping verifies the database connection is usable.
func (r *HealthRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

var _ repository.HealthRepository = (*HealthRepository)(nil)
