// Package identity provides authentication and user management: signup,
// login, token issuance, password updates, and admin user administration.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/ratewell/store-ratings/internal/domain"
	"github.com/ratewell/store-ratings/internal/validate"
)

// Repository defines the persistence operations the identity service needs.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	ListUsers(ctx context.Context, filter UserFilter) ([]domain.User, error)
	// GetOwnerStoreAverage returns the average rating of the store owned by
	// the given user, nil when the owner has no store or the store has no
	// ratings yet.
	GetOwnerStoreAverage(ctx context.Context, ownerID int64) (*float64, error)
}

// TokenIssuer issues signed bearer tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(user *domain.User) (string, error)
}

// Service implements identity business logic.
type Service struct {
	repo   Repository
	tokens TokenIssuer
	hasher *Hasher
}

// NewService creates a new identity service.
func NewService(repo Repository, tokens TokenIssuer, hasher *Hasher) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
	}
}

// SignupInput holds data for public self-registration.
type SignupInput struct {
	Name     string
	Email    string
	Address  string
	Password string
	Role     domain.Role
}

// Signup registers a customer account. The public path only ever creates
// normal users; requesting any other role is a validation failure, not a
// silent downgrade.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	if err := validate.Name(input.Name); err != nil {
		return nil, err
	}
	if err := validate.Email(input.Email); err != nil {
		return nil, err
	}
	if err := validate.Address(input.Address); err != nil {
		return nil, err
	}
	if err := validate.Password(input.Password); err != nil {
		return nil, err
	}
	if err := validate.SignupRole(input.Role); err != nil {
		return nil, err
	}

	return s.createUser(ctx, input.Name, input.Email, input.Address, input.Password, domain.RoleNormal)
}

// CreateUserInput holds data for admin-side user creation.
type CreateUserInput struct {
	Name     string
	Email    string
	Address  string
	Password string
	Role     domain.Role
}

// CreateUser creates a user with any valid role. Admin-only path; an empty
// role defaults to normal.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if err := validate.Name(input.Name); err != nil {
		return nil, err
	}
	if err := validate.Email(input.Email); err != nil {
		return nil, err
	}
	if err := validate.Address(input.Address); err != nil {
		return nil, err
	}
	if err := validate.Password(input.Password); err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = domain.RoleNormal
	}
	if err := validate.Role(role); err != nil {
		return nil, err
	}

	return s.createUser(ctx, input.Name, input.Email, input.Address, input.Password, role)
}

func (s *Service) createUser(ctx context.Context, name, email, address, password string, role domain.Role) (*domain.User, error) {
	// Pre-check gives a clean error for the common case; the unique index
	// on email is the final arbiter under concurrent signups.
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Address:      address,
		Role:         role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// GetUserByID returns the user record for the profile endpoint.
func (s *Service) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// UpdatePassword replaces the caller's password hash after the new password
// passes policy. Single-statement update, nothing mutates on failure.
func (s *Service) UpdatePassword(ctx context.Context, userID int64, newPassword string) error {
	if err := validate.Password(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

// UserFilter holds list criteria for admin user listings. Zero values mean
// no filtering; sort defaults to name ascending.
type UserFilter struct {
	Name      string
	Email     string
	Address   string
	Role      domain.Role
	SortField string
	SortOrder string
}

// Sortable user columns. Whitelisted to keep user input out of SQL.
var userSortFields = map[string]bool{
	"id":         true,
	"name":       true,
	"email":      true,
	"address":    true,
	"role":       true,
	"created_at": true,
}

// ListUsers lists users matching the filter.
func (s *Service) ListUsers(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	if filter.SortField == "" {
		filter.SortField = "name"
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "asc"
	}
	if !userSortFields[filter.SortField] || (filter.SortOrder != "asc" && filter.SortOrder != "desc") {
		return nil, ErrInvalidSort
	}
	if filter.Role != "" {
		if err := validate.Role(filter.Role); err != nil {
			return nil, err
		}
	}
	return s.repo.ListUsers(ctx, filter)
}

// UserDetails is a user plus owner-specific aggregates.
type UserDetails struct {
	domain.User
	// AverageRating is the average rating of the owned store; only set for
	// store owners who have a store with at least one rating.
	AverageRating *float64 `json:"avg_rating,omitempty"`
}

// GetUserDetails returns a user for the admin detail view. Store owners
// additionally carry their store's average rating.
func (s *Service) GetUserDetails(ctx context.Context, id int64) (*UserDetails, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &UserDetails{User: *user}
	if user.Role == domain.RoleStoreOwner {
		avg, err := s.repo.GetOwnerStoreAverage(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("get owner store average: %w", err)
		}
		details.AverageRating = avg
	}
	return details, nil
}
