package ratings

import (
	"context"
	"strings"
	"testing"

	"github.com/ratewell/store-ratings/internal/domain"
	"github.com/ratewell/store-ratings/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	storeExists  bool
	upserted     *domain.Rating
	upsertIsNew  bool
	ownerStoreID int64
	storeRatings []StoreRating
	storeAverage *float64
}

func (m *mockRepository) StoreExists(_ context.Context, _ int64) (bool, error) {
	return m.storeExists, nil
}

func (m *mockRepository) UpsertRating(_ context.Context, rating *domain.Rating) (bool, error) {
	m.upserted = rating
	return m.upsertIsNew, nil
}

func (m *mockRepository) ListUserRatings(_ context.Context, _ int64) ([]UserRating, error) {
	return nil, nil
}

func (m *mockRepository) GetStoreIDByOwner(_ context.Context, _ int64) (int64, error) {
	if m.ownerStoreID == 0 {
		return 0, ErrStoreNotFound
	}
	return m.ownerStoreID, nil
}

func (m *mockRepository) ListStoreRatings(_ context.Context, _ int64) ([]StoreRating, error) {
	return m.storeRatings, nil
}

func (m *mockRepository) GetStoreAverage(_ context.Context, _ int64) (*float64, error) {
	return m.storeAverage, nil
}

func TestSubmitRating_CreatesRating(t *testing.T) {
	repo := &mockRepository{storeExists: true, upsertIsNew: true}
	service := NewService(repo)

	created, err := service.SubmitRating(context.Background(), 7, SubmitRatingInput{
		StoreID: 3,
		Score:   4,
		Comment: "good selection",
	})

	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, repo.upserted)
	assert.Equal(t, int64(7), repo.upserted.UserID)
	assert.Equal(t, int64(3), repo.upserted.StoreID)
	assert.Equal(t, 4, repo.upserted.Score)
}

func TestSubmitRating_UpdatesExistingRating(t *testing.T) {
	repo := &mockRepository{storeExists: true, upsertIsNew: false}
	service := NewService(repo)

	created, err := service.SubmitRating(context.Background(), 7, SubmitRatingInput{
		StoreID: 3,
		Score:   2,
	})

	require.NoError(t, err)
	assert.False(t, created)
}

func TestSubmitRating_ScoreOutOfRange(t *testing.T) {
	repo := &mockRepository{storeExists: true}
	service := NewService(repo)

	for _, score := range []int{0, 6, -1} {
		_, err := service.SubmitRating(context.Background(), 7, SubmitRatingInput{
			StoreID: 3,
			Score:   score,
		})

		var fieldErr *validate.FieldError
		assert.ErrorAs(t, err, &fieldErr, "score %d", score)
		assert.Nil(t, repo.upserted, "score %d", score)
	}
}

func TestSubmitRating_CommentTooLong(t *testing.T) {
	repo := &mockRepository{storeExists: true}
	service := NewService(repo)

	_, err := service.SubmitRating(context.Background(), 7, SubmitRatingInput{
		StoreID: 3,
		Score:   4,
		Comment: strings.Repeat("x", 501),
	})

	var fieldErr *validate.FieldError
	assert.ErrorAs(t, err, &fieldErr)
}

func TestSubmitRating_UnknownStore(t *testing.T) {
	repo := &mockRepository{storeExists: false}
	service := NewService(repo)

	_, err := service.SubmitRating(context.Background(), 7, SubmitRatingInput{
		StoreID: 404,
		Score:   4,
	})

	assert.ErrorIs(t, err, ErrStoreNotFound)
	assert.Nil(t, repo.upserted)
}

func TestOwnerReport_Succeeds(t *testing.T) {
	avg := 3.5
	repo := &mockRepository{
		ownerStoreID: 3,
		storeRatings: []StoreRating{
			{ID: 1, Score: 3, UserName: "Jonathan Average Customer"},
			{ID: 2, Score: 4, UserName: "Janet Enthusiastic Customer"},
		},
		storeAverage: &avg,
	}
	service := NewService(repo)

	report, err := service.OwnerReport(context.Background(), 9)

	require.NoError(t, err)
	assert.Len(t, report.Ratings, 2)
	require.NotNil(t, report.AverageRating)
	assert.InDelta(t, 3.5, *report.AverageRating, 0.001)
}

func TestOwnerReport_NoStore(t *testing.T) {
	service := NewService(&mockRepository{})

	report, err := service.OwnerReport(context.Background(), 9)

	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}
