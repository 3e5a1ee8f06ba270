package service_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/triplog/triplog-backend/errors"
	"github.com/triplog/triplog-backend/internal/draft"
	service "github.com/triplog/triplog-backend/models/trip/service"
	"github.com/triplog/triplog-backend/services"
	"github.com/triplog/triplog-backend/types"
)

type submissionFixture struct {
	trips        *MockTripStore
	destinations *MockDestinationStore
	reviews      *MockReviewStore
	identity     *MockIdentityResolver
	storage      *MockFileStorage
	images       *fakeImageSource
	notifier     *recordingNotifier
	svc          *service.SubmissionService
}

func newSubmissionFixture() *submissionFixture {
	f := &submissionFixture{
		trips:        new(MockTripStore),
		destinations: new(MockDestinationStore),
		reviews:      new(MockReviewStore),
		identity:     new(MockIdentityResolver),
		storage:      newMockFileStorage(),
		images:       &fakeImageSource{files: map[string]string{}},
		notifier:     &recordingNotifier{},
	}
	f.svc = service.NewSubmissionService(
		f.trips, f.destinations, f.reviews, f.identity, f.storage, f.images, f.notifier,
	)
	return f
}

func (f *submissionFixture) expectIdentity(userID string) {
	f.identity.On("CurrentIdentity", mock.Anything, "token-1").
		Return(&services.Identity{UserID: userID, Email: userID + "@example.com"}, nil)
}

func jejuSnapshot() draft.State {
	s := draft.NewState()
	s.Location = "제주도"
	s.ReviewContent = "한라산이 최고였다"
	s.Rating = 5
	s.Destinations = []draft.DraftDestination{
		{Name: "한라산", Day: 1},
		{Name: "성산일출봉", Description: "일출 명소", Day: 2},
	}
	return s
}

func TestSubmit_FullRoundTrip(t *testing.T) {
	f := newSubmissionFixture()
	f.expectIdentity("user-1")

	snapshot := jejuSnapshot()
	snapshot.StagedImages = []draft.StagedImage{
		{Key: "staged-1", FileName: "sunrise.png", ContentType: "image/png", PreviewToken: "tok-1"},
	}
	f.images.files["staged-1"] = "png bytes"

	date := time.Date(2025, 4, 1, 10, 0, 0, 0, time.Local)

	f.trips.On("CreateTrip", mock.Anything, mock.MatchedBy(func(rec types.TripRecord) bool {
		return rec.UserID == "user-1" &&
			rec.Title == "제주도" &&
			rec.StartDate == "2025-04-01" &&
			rec.EndDate == "2025-04-01" &&
			rec.IsPublic &&
			rec.Description != nil && *rec.Description == "한라산이 최고였다"
	})).Return(&types.Trip{
		ID: "trip-1", UserID: "user-1", Title: "제주도",
		StartDate: "2025-04-01", EndDate: "2025-04-01", IsPublic: true,
		Destinations: []types.Destination{}, Reviews: []types.Review{},
	}, nil)

	f.destinations.On("CreateDestinations", mock.Anything, mock.MatchedBy(func(recs []types.DestinationRecord) bool {
		return len(recs) == 2 &&
			recs[0].Name == "한라산" && recs[0].OrderNum == 1 && recs[0].Description == nil &&
			recs[1].Name == "성산일출봉" && recs[1].OrderNum == 2 &&
			recs[1].Description != nil && *recs[1].Description == "일출 명소"
	})).Return([]types.Destination{
		{ID: "dest-1", TripID: "trip-1", Name: "한라산", OrderNum: 1},
		{ID: "dest-2", TripID: "trip-1", Name: "성산일출봉", OrderNum: 2},
	}, nil)

	keyPattern := regexp.MustCompile(`^user-1/trip-1/\d+-0\.png$`)
	var uploadedKey string
	f.storage.On("Save", mock.Anything, mock.MatchedBy(func(key string) bool {
		uploadedKey = key
		return keyPattern.MatchString(key)
	}), "image/png", mock.Anything).Return(nil)

	f.reviews.On("CreateReview", mock.Anything, mock.MatchedBy(func(rec types.ReviewRecord) bool {
		return rec.TripID == "trip-1" && rec.UserID == "user-1" &&
			rec.Content == "한라산이 최고였다" && rec.Rating == 5 &&
			len(rec.Images) == 1 && keyPattern.MatchString(rec.Images[0][len("https://cdn.example.com/trip-images/"):])
	})).Return(&types.Review{
		ID: "rev-1", TripID: "trip-1", UserID: "user-1",
		Content: "한라산이 최고였다", Rating: 5,
		Images: []string{"https://cdn.example.com/trip-images/user-1/trip-1/0-0.png"},
	}, nil)

	trip, err := f.svc.Submit(context.Background(), "token-1", "user-1", snapshot, date)
	require.NoError(t, err)
	require.NotNil(t, trip)
	require.Len(t, trip.Destinations, 2)
	assert.Equal(t, "한라산", trip.Destinations[0].Name)
	require.Len(t, trip.Reviews, 1)
	assert.Empty(t, f.notifier.all(), "no notifications on full success")
	assert.True(t, keyPattern.MatchString(uploadedKey))

	f.trips.AssertExpectations(t)
	f.destinations.AssertExpectations(t)
	f.reviews.AssertExpectations(t)
	f.storage.AssertExpectations(t)
}

func TestSubmit_DestinationFailureIsPartial(t *testing.T) {
	f := newSubmissionFixture()
	f.expectIdentity("user-1")

	snapshot := jejuSnapshot()
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local)

	f.trips.On("CreateTrip", mock.Anything, mock.Anything).Return(&types.Trip{
		ID: "trip-1", UserID: "user-1", Title: "제주도",
		Destinations: []types.Destination{}, Reviews: []types.Review{},
	}, nil)
	f.destinations.On("CreateDestinations", mock.Anything, mock.Anything).
		Return(nil, errors.New("insert failed"))
	f.reviews.On("CreateReview", mock.Anything, mock.MatchedBy(func(rec types.ReviewRecord) bool {
		return rec.Images == nil
	})).Return(&types.Review{ID: "rev-1", TripID: "trip-1", Content: "한라산이 최고였다", Rating: 5}, nil)

	trip, err := f.svc.Submit(context.Background(), "token-1", "user-1", snapshot, date)
	require.NoError(t, err)
	require.NotNil(t, trip)
	assert.NotNil(t, trip.Destinations)
	assert.Empty(t, trip.Destinations)
	require.Len(t, trip.Reviews, 1)

	calls := f.notifier.all()
	require.Len(t, calls, 1, "exactly one notification for the failed step")
	assert.Equal(t, "user-1", calls[0].userID)
	assert.Equal(t, types.SeverityWarning, calls[0].severity)
	assert.Equal(t, "여행지 정보 저장에 실패했습니다.", calls[0].message)
}

func TestSubmit_TripInsertFailureIsFatal(t *testing.T) {
	f := newSubmissionFixture()
	f.expectIdentity("user-1")

	snapshot := jejuSnapshot()
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local)

	f.trips.On("CreateTrip", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	trip, err := f.svc.Submit(context.Background(), "token-1", "user-1", snapshot, date)
	require.Error(t, err)
	assert.Nil(t, trip)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.DatabaseError, appErr.Type)

	f.destinations.AssertNotCalled(t, "CreateDestinations", mock.Anything, mock.Anything)
	f.reviews.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)

	calls := f.notifier.all()
	require.Len(t, calls, 1)
	assert.Equal(t, types.SeverityError, calls[0].severity)
	assert.Equal(t, "여행 저장에 실패했습니다.", calls[0].message)
}

func TestSubmit_NoSessionIsAuthError(t *testing.T) {
	f := newSubmissionFixture()

	f.identity.On("CurrentIdentity", mock.Anything, "token-1").
		Return(nil, apperrors.AuthenticationFailed("No active session"))

	snapshot := jejuSnapshot()
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local)

	trip, err := f.svc.Submit(context.Background(), "token-1", "user-1", snapshot, date)
	require.Error(t, err)
	assert.Nil(t, trip)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.AuthError, appErr.Type)

	f.trips.AssertNotCalled(t, "CreateTrip", mock.Anything, mock.Anything)

	calls := f.notifier.all()
	require.Len(t, calls, 1)
	assert.Equal(t, "정보를 확인할 수 없습니다. 다시 로그인해주세요.", calls[0].message)
}

func TestSubmit_EmptyLocationRejectedBeforeIdentity(t *testing.T) {
	f := newSubmissionFixture()

	snapshot := draft.NewState()
	snapshot.Location = "   "
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local)

	trip, err := f.svc.Submit(context.Background(), "token-1", "user-1", snapshot, date)
	require.Error(t, err)
	assert.Nil(t, trip)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ValidationError, appErr.Type)

	f.identity.AssertNotCalled(t, "CurrentIdentity", mock.Anything, mock.Anything)
	assert.Empty(t, f.notifier.all())
}

func TestSubmit_ImageBatchIsAllOrNothing(t *testing.T) {
	f := newSubmissionFixture()
	f.expectIdentity("user-1")

	snapshot := draft.NewState()
	snapshot.Location = "제주도"
	snapshot.ReviewContent = "사진 없이 저장된 후기"
	snapshot.StagedImages = []draft.StagedImage{
		{Key: "staged-1", FileName: "a.jpg", ContentType: "image/jpeg"},
		{Key: "staged-2", FileName: "b.jpg", ContentType: "image/jpeg"},
	}
	f.images.files["staged-1"] = "jpeg one"
	f.images.files["staged-2"] = "jpeg two"
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local)

	f.trips.On("CreateTrip", mock.Anything, mock.Anything).Return(&types.Trip{
		ID: "trip-1", UserID: "user-1",
		Destinations: []types.Destination{}, Reviews: []types.Review{},
	}, nil)

	first := regexp.MustCompile(`-0\.jpg$`)
	second := regexp.MustCompile(`-1\.jpg$`)
	f.storage.On("Save", mock.Anything, mock.MatchedBy(func(key string) bool {
		return first.MatchString(key)
	}), "image/jpeg", mock.Anything).Return(nil)
	f.storage.On("Save", mock.Anything, mock.MatchedBy(func(key string) bool {
		return second.MatchString(key)
	}), "image/jpeg", mock.Anything).Return(errors.New("bucket unavailable"))
	f.storage.On("Delete", mock.Anything, mock.MatchedBy(func(key string) bool {
		return first.MatchString(key)
	})).Return(nil)

	f.reviews.On("CreateReview", mock.Anything, mock.MatchedBy(func(rec types.ReviewRecord) bool {
		return rec.Images == nil
	})).Return(&types.Review{ID: "rev-1", TripID: "trip-1"}, nil)

	trip, err := f.svc.Submit(context.Background(), "token-1", "user-1", snapshot, date)
	require.NoError(t, err)
	require.Len(t, trip.Reviews, 1)

	calls := f.notifier.all()
	require.Len(t, calls, 1)
	assert.Equal(t, types.SeverityWarning, calls[0].severity)
	assert.Equal(t, "이미지 업로드에 실패했습니다. 리뷰는 저장되지만 이미지는 포함되지 않습니다.", calls[0].message)
	f.storage.AssertExpectations(t)
}

func TestSubmit_SessionIdentityWins(t *testing.T) {
	f := newSubmissionFixture()

	f.identity.On("CurrentIdentity", mock.Anything, "token-1").
		Return(&services.Identity{UserID: "session-user"}, nil)

	snapshot := draft.NewState()
	snapshot.Location = "부산"
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local)

	f.trips.On("CreateTrip", mock.Anything, mock.MatchedBy(func(rec types.TripRecord) bool {
		return rec.UserID == "session-user"
	})).Return(&types.Trip{
		ID: "trip-1", UserID: "session-user",
		Destinations: []types.Destination{}, Reviews: []types.Review{},
	}, nil)

	trip, err := f.svc.Submit(context.Background(), "token-1", "claimed-user", snapshot, date)
	require.NoError(t, err)
	assert.Equal(t, "session-user", trip.UserID)
	assert.Empty(t, trip.Reviews, "no review insert without content")
	f.trips.AssertExpectations(t)
}
