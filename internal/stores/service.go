// Package stores provides HTTP handlers and business logic for managing and
// browsing stores.
package stores

import (
	"context"
	"errors"

	"github.com/ratewell/store-ratings/internal/domain"
)

// Sentinel errors returned by the stores service.
var (
	ErrStoreNotFound = errors.New("store not found")
	ErrOwnerNotFound = errors.New("owner not found")
	ErrInvalidSort   = errors.New("invalid sort parameters")
)

// StoreSummary is a store row in the admin listing, with its average rating.
type StoreSummary struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	AverageRating *float64 `json:"avg_rating"`
}

// StoreDetails is the admin detail view including owner info and rating
// aggregates.
type StoreDetails struct {
	domain.Store
	OwnerName     *string  `json:"owner_name,omitempty"`
	OwnerEmail    *string  `json:"owner_email,omitempty"`
	AverageRating *float64 `json:"avg_rating"`
	TotalRatings  int      `json:"total_ratings"`
}

// CustomerStore is a store row in the customer listing: the overall average
// plus the browsing customer's own rating and comment, when present.
type CustomerStore struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	OverallRating *float64 `json:"overall_rating"`
	UserRating    *int     `json:"user_rating"`
	UserComment   *string  `json:"user_comment"`
}

// StoreFilter holds list criteria for admin store listings.
type StoreFilter struct {
	Name      string
	Email     string
	Address   string
	SortField string
	SortOrder string
}

// CustomerStoreFilter holds search criteria for customer store browsing.
type CustomerStoreFilter struct {
	Name      string
	Address   string
	SortField string
	SortOrder string
}

// Repository defines the interface for store data operations.
type Repository interface {
	CreateStore(ctx context.Context, store *domain.Store) error
	GetStoreDetails(ctx context.Context, id int64) (*StoreDetails, error)
	ListStores(ctx context.Context, filter StoreFilter) ([]StoreSummary, error)
	ListStoresForCustomer(ctx context.Context, userID int64, filter CustomerStoreFilter) ([]CustomerStore, error)
}

// Service implements store business logic.
type Service struct {
	repo Repository
}

// NewService creates a new store service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Sortable store columns, whitelisted before reaching SQL.
var storeSortFields = map[string]bool{
	"id":         true,
	"name":       true,
	"email":      true,
	"address":    true,
	"created_at": true,
}

// CreateStore creates a store; request shape validation happens in the
// handler.
func (s *Service) CreateStore(ctx context.Context, store *domain.Store) error {
	return s.repo.CreateStore(ctx, store)
}

// GetStoreDetails returns the admin detail view for a store.
func (s *Service) GetStoreDetails(ctx context.Context, id int64) (*StoreDetails, error) {
	return s.repo.GetStoreDetails(ctx, id)
}

// ListStores lists stores for the admin view.
func (s *Service) ListStores(ctx context.Context, filter StoreFilter) ([]StoreSummary, error) {
	field, order, err := normalizeSort(filter.SortField, filter.SortOrder)
	if err != nil {
		return nil, err
	}
	filter.SortField, filter.SortOrder = field, order
	return s.repo.ListStores(ctx, filter)
}

// ListStoresForCustomer lists stores for the browsing customer, annotated
// with their own rating per store.
func (s *Service) ListStoresForCustomer(ctx context.Context, userID int64, filter CustomerStoreFilter) ([]CustomerStore, error) {
	field, order, err := normalizeSort(filter.SortField, filter.SortOrder)
	if err != nil {
		return nil, err
	}
	filter.SortField, filter.SortOrder = field, order
	return s.repo.ListStoresForCustomer(ctx, userID, filter)
}

func normalizeSort(field, order string) (string, string, error) {
	if field == "" {
		field = "name"
	}
	if order == "" {
		order = "asc"
	}
	if !storeSortFields[field] || (order != "asc" && order != "desc") {
		return "", "", ErrInvalidSort
	}
	return field, order, nil
}
