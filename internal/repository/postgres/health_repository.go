package postgres

import (
	"context"

	"github.com/gpascual/shotbypascual/internal/repository"
)

// HealthRepository implements repository.HealthRepository for PostgreSQL.
type HealthRepository struct {
	pool *Pool
}

// NewHealthRepository creates a new PostgreSQL health repository.
func NewHealthRepository(pool *Pool) *HealthRepository {
	return &HealthRepository{pool: pool}
}

// Ping verifies the database connection is usable.
func (r *HealthRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var _ repository.HealthRepository = (*HealthRepository)(nil)
