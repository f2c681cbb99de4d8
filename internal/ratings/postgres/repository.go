// Package postgres provides the PostgreSQL implementation of the ratings
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ratewell/store-ratings/internal/domain"
	"github.com/ratewell/store-ratings/internal/ratings"
)

// Repository implements ratings.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL ratings repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// StoreExists reports whether a store with the given id exists.
func (r *Repository) StoreExists(ctx context.Context, storeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stores WHERE id = $1)`, storeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check store exists: %w", err)
	}
	return exists, nil
}

// UpsertRating inserts the rating or replaces the user's previous rating of
// the same store in a single statement. xmax = 0 distinguishes a fresh
// insert from a conflict-update.
func (r *Repository) UpsertRating(ctx context.Context, rating *domain.Rating) (bool, error) {
	query := `
		INSERT INTO ratings (store_id, user_id, score, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, store_id)
		DO UPDATE SET score = EXCLUDED.score, comment = EXCLUDED.comment, updated_at = now()
		RETURNING id, created_at, updated_at, (xmax = 0)
	`
	var created bool
	err := r.db.QueryRow(ctx, query,
		rating.StoreID,
		rating.UserID,
		rating.Score,
		rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("upsert rating: %w", err)
	}
	return created, nil
}

// ListUserRatings lists the user's ratings with store info, newest first.
func (r *Repository) ListUserRatings(ctx context.Context, userID int64) ([]ratings.UserRating, error) {
	query := `
		SELECT r.id, r.score, r.comment, r.created_at,
		       s.name, s.address
		FROM ratings r
		JOIN stores s ON r.store_id = s.id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user ratings: %w", err)
	}
	defer rows.Close()

	result := make([]ratings.UserRating, 0)
	for rows.Next() {
		var ur ratings.UserRating
		if err := rows.Scan(&ur.ID, &ur.Score, &ur.Comment, &ur.CreatedAt, &ur.StoreName, &ur.StoreAddress); err != nil {
			return nil, fmt.Errorf("scan user rating: %w", err)
		}
		result = append(result, ur)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ratings: %w", err)
	}
	return result, nil
}

// GetStoreIDByOwner resolves the store owned by the given user.
func (r *Repository) GetStoreIDByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var storeID int64
	err := r.db.QueryRow(ctx,
		`SELECT id FROM stores WHERE owner_id = $1`, ownerID,
	).Scan(&storeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ratings.ErrStoreNotFound
		}
		return 0, fmt.Errorf("get store by owner: %w", err)
	}
	return storeID, nil
}

// ListStoreRatings lists a store's ratings with rater identity.
func (r *Repository) ListStoreRatings(ctx context.Context, storeID int64) ([]ratings.StoreRating, error) {
	query := `
		SELECT r.id, r.score, r.comment, r.created_at,
		       u.name, u.email
		FROM ratings r
		JOIN users u ON r.user_id = u.id
		WHERE r.store_id = $1
		ORDER BY r.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list store ratings: %w", err)
	}
	defer rows.Close()

	result := make([]ratings.StoreRating, 0)
	for rows.Next() {
		var sr ratings.StoreRating
		if err := rows.Scan(&sr.ID, &sr.Score, &sr.Comment, &sr.CreatedAt, &sr.UserName, &sr.UserEmail); err != nil {
			return nil, fmt.Errorf("scan store rating: %w", err)
		}
		result = append(result, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate store ratings: %w", err)
	}
	return result, nil
}

// GetStoreAverage returns the store's average score, nil when unrated.
func (r *Repository) GetStoreAverage(ctx context.Context, storeID int64) (*float64, error) {
	var avg *float64
	err := r.db.QueryRow(ctx,
		`SELECT AVG(score) FROM ratings WHERE store_id = $1`, storeID,
	).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("store average: %w", err)
	}
	return avg, nil
}
