// Package ratings provides the rating submission and feedback views:
// customers rate stores, store owners review what their store received.
package ratings

import (
	"context"
	"errors"
	"time"

	"github.com/ratewell/store-ratings/internal/domain"
	"github.com/ratewell/store-ratings/internal/validate"
)

// Sentinel errors returned by the ratings service.
var (
	ErrStoreNotFound = errors.New("store not found")
)

// StoreRating is a rating joined with the rater's identity, for the store
// owner's feedback view.
type StoreRating struct {
	ID        int64     `json:"id"`
	Score     int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	UserName  string    `json:"name"`
	UserEmail string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRating is a rating joined with its store, for the customer's
// "my ratings" view.
type UserRating struct {
	ID           int64     `json:"id"`
	Score        int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	StoreName    string    `json:"store_name"`
	StoreAddress string    `json:"store_address"`
	CreatedAt    time.Time `json:"created_at"`
}

// StoreReport is the owner's dashboard: every rating the store received and
// the running average.
type StoreReport struct {
	Ratings       []StoreRating `json:"ratings"`
	AverageRating *float64      `json:"avgRating"`
}

// Repository defines the interface for rating data operations.
type Repository interface {
	StoreExists(ctx context.Context, storeID int64) (bool, error)
	// UpsertRating inserts the rating or replaces the caller's previous
	// rating of the same store. Returns true when a new row was created.
	UpsertRating(ctx context.Context, rating *domain.Rating) (bool, error)
	ListUserRatings(ctx context.Context, userID int64) ([]UserRating, error)
	// GetStoreIDByOwner resolves the store owned by the given user;
	// ErrStoreNotFound when the owner has none.
	GetStoreIDByOwner(ctx context.Context, ownerID int64) (int64, error)
	ListStoreRatings(ctx context.Context, storeID int64) ([]StoreRating, error)
	GetStoreAverage(ctx context.Context, storeID int64) (*float64, error)
}

// Service implements rating business logic.
type Service struct {
	repo Repository
}

// NewService creates a new ratings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SubmitRatingInput holds data for submitting or updating a rating.
type SubmitRatingInput struct {
	StoreID int64
	Score   int
	Comment string
}

// SubmitRating records the user's rating of a store, replacing any previous
// one. The returned flag is true when this was a first-time rating.
func (s *Service) SubmitRating(ctx context.Context, userID int64, input SubmitRatingInput) (bool, error) {
	if err := validate.RatingScore(input.Score); err != nil {
		return false, err
	}
	if err := validate.Comment(input.Comment); err != nil {
		return false, err
	}

	exists, err := s.repo.StoreExists(ctx, input.StoreID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrStoreNotFound
	}

	rating := &domain.Rating{
		StoreID: input.StoreID,
		UserID:  userID,
		Score:   input.Score,
		Comment: input.Comment,
	}
	return s.repo.UpsertRating(ctx, rating)
}

// MyRatings lists the customer's own ratings, newest first.
func (s *Service) MyRatings(ctx context.Context, userID int64) ([]UserRating, error) {
	return s.repo.ListUserRatings(ctx, userID)
}

// OwnerReport builds the store owner's feedback view. Fails with
// ErrStoreNotFound when the caller owns no store.
func (s *Service) OwnerReport(ctx context.Context, ownerID int64) (*StoreReport, error) {
	storeID, err := s.repo.GetStoreIDByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ratings, err := s.repo.ListStoreRatings(ctx, storeID)
	if err != nil {
		return nil, err
	}
	avg, err := s.repo.GetStoreAverage(ctx, storeID)
	if err != nil {
		return nil, err
	}

	return &StoreReport{
		Ratings:       ratings,
		AverageRating: avg,
	}, nil
}
