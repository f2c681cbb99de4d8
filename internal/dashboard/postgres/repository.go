// Package postgres provides the PostgreSQL implementation of the dashboard
// repository.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ratewell/store-ratings/internal/dashboard"
)

// Repository implements dashboard.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL dashboard repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetTotals counts users, stores, and ratings in a single round trip.
func (r *Repository) GetTotals(ctx context.Context) (*dashboard.Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM stores),
			(SELECT COUNT(*) FROM ratings)
	`
	var totals dashboard.Totals
	err := r.db.QueryRow(ctx, query).Scan(
		&totals.TotalUsers,
		&totals.TotalStores,
		&totals.TotalRatings,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}
	return &totals, nil
}
