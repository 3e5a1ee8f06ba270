package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/triplog/triplog-backend/errors"
	"github.com/triplog/triplog-backend/internal/store"
	service "github.com/triplog/triplog-backend/models/review/service"
	"github.com/triplog/triplog-backend/types"
)

// MockReviewStore implements store.ReviewStore
type MockReviewStore struct{ mock.Mock }

func (m *MockReviewStore) CreateReview(ctx context.Context, record types.ReviewRecord) (*types.Review, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}
func (m *MockReviewStore) GetReview(ctx context.Context, id string) (*types.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}
func (m *MockReviewStore) UpdateReview(ctx context.Context, id string, update types.ReviewUpdate) (*types.Review, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}
func (m *MockReviewStore) ListByTrip(ctx context.Context, tripID string) ([]types.Review, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Review), args.Error(1)
}

func TestUpdateReview_Owner(t *testing.T) {
	reviews := new(MockReviewStore)
	svc := service.NewReviewService(reviews)

	reviews.On("GetReview", mock.Anything, "rev-1").
		Return(&types.Review{ID: "rev-1", TripID: "trip-1", UserID: "user-1", Content: "old", Rating: 3}, nil)
	reviews.On("UpdateReview", mock.Anything, "rev-1", types.ReviewUpdate{Content: "정말 좋았어요", Rating: 5}).
		Return(&types.Review{ID: "rev-1", TripID: "trip-1", UserID: "user-1", Content: "정말 좋았어요", Rating: 5}, nil)

	updated, err := svc.UpdateReview(context.Background(), "rev-1", "user-1",
		types.ReviewUpdate{Content: "  정말 좋았어요  ", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, "정말 좋았어요", updated.Content)
	assert.Equal(t, 5, updated.Rating)
	reviews.AssertExpectations(t)
}

func TestUpdateReview_NonOwnerForbidden(t *testing.T) {
	reviews := new(MockReviewStore)
	svc := service.NewReviewService(reviews)

	reviews.On("GetReview", mock.Anything, "rev-1").
		Return(&types.Review{ID: "rev-1", UserID: "user-1"}, nil)

	_, err := svc.UpdateReview(context.Background(), "rev-1", "user-2",
		types.ReviewUpdate{Content: "hijack", Rating: 1})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ForbiddenError, appErr.Type)
	reviews.AssertNotCalled(t, "UpdateReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateReview_InvalidRating(t *testing.T) {
	reviews := new(MockReviewStore)
	svc := service.NewReviewService(reviews)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.UpdateReview(context.Background(), "rev-1", "user-1",
			types.ReviewUpdate{Content: "fine", Rating: rating})
		require.Error(t, err)
	}
	reviews.AssertNotCalled(t, "GetReview", mock.Anything, mock.Anything)
}

func TestUpdateReview_NotFound(t *testing.T) {
	reviews := new(MockReviewStore)
	svc := service.NewReviewService(reviews)

	reviews.On("GetReview", mock.Anything, "missing").Return(nil, store.ErrNotFound)

	_, err := svc.UpdateReview(context.Background(), "missing", "user-1",
		types.ReviewUpdate{Content: "fine", Rating: 4})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.NotFoundError, appErr.Type)
}
