package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/ratewell/store-ratings/internal/domain"
	"github.com/ratewell/store-ratings/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	users         map[string]*domain.User
	nextID        int64
	createUserErr error
	listedFilter  *UserFilter
	ownerAverage  *float64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockRepository) CreateUser(_ context.Context, user *domain.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.Email] = user
	return nil
}

func (m *mockRepository) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	for _, u := range m.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return ErrUserNotFound
}

func (m *mockRepository) ListUsers(_ context.Context, filter UserFilter) ([]domain.User, error) {
	m.listedFilter = &filter
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockRepository) GetOwnerStoreAverage(_ context.Context, _ int64) (*float64, error) {
	return m.ownerAverage, nil
}

// mockIssuer implements TokenIssuer for testing.
type mockIssuer struct {
	token string
	err   error
}

func (m *mockIssuer) GenerateToken(_ *domain.User) (string, error) {
	return m.token, m.err
}

func newTestService(repo *mockRepository) *Service {
	// Minimum bcrypt cost keeps the test fast.
	return NewService(repo, &mockIssuer{token: "signed-token"}, NewHasher(bcrypt.MinCost))
}

func validSignup() SignupInput {
	return SignupInput{
		Name:     "Jonathan Average Customer",
		Email:    "customer@example.com",
		Address:  "42 Market Street, Springfield",
		Password: "Valid@Pass1",
		Role:     domain.RoleNormal,
	}
}

func TestSignup_CreatesNormalUser(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.Signup(context.Background(), validSignup())

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, domain.RoleNormal, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "Valid@Pass1", user.PasswordHash)
}

func TestSignup_RequiresExplicitNormalRole(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	input := validSignup()
	input.Role = ""

	user, err := service.Signup(context.Background(), input)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, validate.ErrSignupRoleRestricted)
}

func TestSignup_RejectsElevatedRole(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleStoreOwner} {
		input := validSignup()
		input.Role = role

		user, err := service.Signup(context.Background(), input)

		assert.Nil(t, user, "role %s", role)
		assert.ErrorIs(t, err, validate.ErrSignupRoleRestricted, "role %s", role)
	}
}

func TestSignup_EmailAlreadyExists(t *testing.T) {
	repo := newMockRepository()
	repo.users["customer@example.com"] = &domain.User{ID: 1, Email: "customer@example.com"}
	service := newTestService(repo)

	user, err := service.Signup(context.Background(), validSignup())

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestSignup_InvalidFieldsRejected(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	tests := []struct {
		name   string
		mutate func(*SignupInput)
	}{
		{"short name", func(in *SignupInput) { in.Name = "Too Short" }},
		{"bad email", func(in *SignupInput) { in.Email = "not-an-email" }},
		{"empty address", func(in *SignupInput) { in.Address = "" }},
		{"weak password", func(in *SignupInput) { in.Password = "alllowercase" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validSignup()
			tt.mutate(&input)

			user, err := service.Signup(context.Background(), input)

			assert.Nil(t, user)
			var fieldErr *validate.FieldError
			assert.ErrorAs(t, err, &fieldErr)
		})
	}
}

func TestCreateUser_AllowsAnyValidRole(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	for i, role := range []domain.Role{domain.RoleAdmin, domain.RoleNormal, domain.RoleStoreOwner} {
		input := CreateUserInput{
			Name:     "Administrative Test Account",
			Email:    string(role) + "@example.com",
			Address:  "1 Admin Plaza",
			Password: "Valid@Pass1",
			Role:     role,
		}

		user, err := service.CreateUser(context.Background(), input)

		require.NoError(t, err, "role %s", role)
		assert.Equal(t, role, user.Role)
		assert.Equal(t, int64(i+1), user.ID)
	}
}

func TestCreateUser_UnknownRoleRejected(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.CreateUser(context.Background(), CreateUserInput{
		Name:     "Administrative Test Account",
		Email:    "x@example.com",
		Address:  "1 Admin Plaza",
		Password: "Valid@Pass1",
		Role:     "superuser",
	})

	assert.Nil(t, user)
	var fieldErr *validate.FieldError
	assert.ErrorAs(t, err, &fieldErr)
}

func TestLogin_Succeeds(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	created, err := service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	user, token, err := service.Login(context.Background(), "customer@example.com", "Valid@Pass1")

	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "signed-token", token)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, token, err := service.Login(context.Background(), "missing@example.com", "Valid@Pass1")

	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	_, err := service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	user, token, err := service.Login(context.Background(), "customer@example.com", "Wrong@Pass1")

	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_TokenIssueFails(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &mockIssuer{err: errors.New("signing error")}, NewHasher(bcrypt.MinCost))

	_, err := service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	user, token, err := service.Login(context.Background(), "customer@example.com", "Valid@Pass1")

	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdatePassword_EnforcesPolicy(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	created, err := service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	err = service.UpdatePassword(context.Background(), created.ID, "weak")
	var fieldErr *validate.FieldError
	assert.ErrorAs(t, err, &fieldErr)

	err = service.UpdatePassword(context.Background(), created.ID, "Fresh@Pass2")
	require.NoError(t, err)

	_, _, err = service.Login(context.Background(), "customer@example.com", "Fresh@Pass2")
	assert.NoError(t, err)

	_, _, err = service.Login(context.Background(), "customer@example.com", "Valid@Pass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestListUsers_DefaultsAndWhitelist(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	_, err := service.ListUsers(context.Background(), UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, "name", repo.listedFilter.SortField)
	assert.Equal(t, "asc", repo.listedFilter.SortOrder)

	_, err = service.ListUsers(context.Background(), UserFilter{SortField: "password_hash"})
	assert.ErrorIs(t, err, ErrInvalidSort)

	_, err = service.ListUsers(context.Background(), UserFilter{SortField: "email", SortOrder: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidSort)

	_, err = service.ListUsers(context.Background(), UserFilter{Role: "superuser"})
	var fieldErr *validate.FieldError
	assert.ErrorAs(t, err, &fieldErr)
}

func TestGetUserDetails_OwnerCarriesAverage(t *testing.T) {
	repo := newMockRepository()
	avg := 4.2
	repo.ownerAverage = &avg
	service := newTestService(repo)

	owner, err := service.CreateUser(context.Background(), CreateUserInput{
		Name:     "Prosperous Store Owner Account",
		Email:    "owner@example.com",
		Address:  "7 Commerce Way",
		Password: "Valid@Pass1",
		Role:     domain.RoleStoreOwner,
	})
	require.NoError(t, err)

	details, err := service.GetUserDetails(context.Background(), owner.ID)

	require.NoError(t, err)
	require.NotNil(t, details.AverageRating)
	assert.InDelta(t, 4.2, *details.AverageRating, 0.001)
}

func TestGetUserDetails_CustomerHasNoAverage(t *testing.T) {
	repo := newMockRepository()
	avg := 4.2
	repo.ownerAverage = &avg
	service := newTestService(repo)

	customer, err := service.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	details, err := service.GetUserDetails(context.Background(), customer.ID)

	require.NoError(t, err)
	assert.Nil(t, details.AverageRating)
}
