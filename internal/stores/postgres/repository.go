// Package postgres provides the PostgreSQL implementation of the stores
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ratewell/store-ratings/internal/domain"
	"github.com/ratewell/store-ratings/internal/stores"
)

// foreignKeyViolation is the Postgres error code for FK constraint failures.
const foreignKeyViolation = "23503"

// Repository implements stores.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL stores repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateStore inserts a store. An unknown owner_id surfaces as
// stores.ErrOwnerNotFound.
func (r *Repository) CreateStore(ctx context.Context, store *domain.Store) error {
	query := `
		INSERT INTO stores (name, email, address, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		store.Name,
		store.Email,
		store.Address,
		store.OwnerID,
	).Scan(&store.ID, &store.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return stores.ErrOwnerNotFound
		}
		return fmt.Errorf("create store: %w", err)
	}
	return nil
}

// GetStoreDetails retrieves a store with owner information and rating
// aggregates.
func (r *Repository) GetStoreDetails(ctx context.Context, id int64) (*stores.StoreDetails, error) {
	query := `
		SELECT s.id, s.name, s.email, s.address, s.owner_id, s.created_at,
		       u.name, u.email,
		       AVG(r.score), COUNT(r.id)
		FROM stores s
		LEFT JOIN users u ON s.owner_id = u.id
		LEFT JOIN ratings r ON r.store_id = s.id
		WHERE s.id = $1
		GROUP BY s.id, u.name, u.email
	`
	var details stores.StoreDetails
	err := r.db.QueryRow(ctx, query, id).Scan(
		&details.ID,
		&details.Name,
		&details.Email,
		&details.Address,
		&details.OwnerID,
		&details.CreatedAt,
		&details.OwnerName,
		&details.OwnerEmail,
		&details.AverageRating,
		&details.TotalRatings,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, stores.ErrStoreNotFound
		}
		return nil, fmt.Errorf("get store details: %w", err)
	}
	return &details, nil
}

// ListStores lists stores with their average rating for the admin view.
// Sort parameters are whitelisted by the service.
func (r *Repository) ListStores(ctx context.Context, filter stores.StoreFilter) ([]stores.StoreSummary, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT s.id, s.name, s.email, s.address, AVG(r.score)
		FROM stores s
		LEFT JOIN ratings r ON r.store_id = s.id
		WHERE 1=1
	`)

	var args []interface{}
	addLike := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+value+"%")
		fmt.Fprintf(&sb, " AND %s ILIKE $%d", column, len(args))
	}
	addLike("s.name", filter.Name)
	addLike("s.email", filter.Email)
	addLike("s.address", filter.Address)

	fmt.Fprintf(&sb, " GROUP BY s.id ORDER BY s.%s %s", filter.SortField, strings.ToUpper(filter.SortOrder))

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	summaries := make([]stores.StoreSummary, 0)
	for rows.Next() {
		var s stores.StoreSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Address, &s.AverageRating); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stores: %w", err)
	}
	return summaries, nil
}

// ListStoresForCustomer lists stores with the overall average plus the
// browsing customer's own rating and comment.
func (r *Repository) ListStoresForCustomer(ctx context.Context, userID int64, filter stores.CustomerStoreFilter) ([]stores.CustomerStore, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT s.id, s.name, s.address, AVG(r.score),
		       (SELECT score FROM ratings WHERE user_id = $1 AND store_id = s.id),
		       (SELECT comment FROM ratings WHERE user_id = $1 AND store_id = s.id)
		FROM stores s
		LEFT JOIN ratings r ON r.store_id = s.id
		WHERE 1=1
	`)

	args := []interface{}{userID}
	addLike := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+value+"%")
		fmt.Fprintf(&sb, " AND %s ILIKE $%d", column, len(args))
	}
	addLike("s.name", filter.Name)
	addLike("s.address", filter.Address)

	fmt.Fprintf(&sb, " GROUP BY s.id ORDER BY s.%s %s", filter.SortField, strings.ToUpper(filter.SortOrder))

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list stores for customer: %w", err)
	}
	defer rows.Close()

	result := make([]stores.CustomerStore, 0)
	for rows.Next() {
		var s stores.CustomerStore
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.OverallRating, &s.UserRating, &s.UserComment); err != nil {
			return nil, fmt.Errorf("scan customer store: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer stores: %w", err)
	}
	return result, nil
}
