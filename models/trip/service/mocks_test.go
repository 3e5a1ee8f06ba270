package service_test

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/triplog/triplog-backend/services"
	"github.com/triplog/triplog-backend/types"
)

// MockTripStore implements store.TripStore
type MockTripStore struct{ mock.Mock }

func (m *MockTripStore) CreateTrip(ctx context.Context, record types.TripRecord) (*types.Trip, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}
func (m *MockTripStore) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}
func (m *MockTripStore) ListUserTrips(ctx context.Context, userID string) ([]*types.Trip, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Trip), args.Error(1)
}
func (m *MockTripStore) ListPublicTrips(ctx context.Context, limit, offset int) ([]*types.Trip, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Trip), args.Error(1)
}
func (m *MockTripStore) SoftDeleteTrip(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDestinationStore implements store.DestinationStore
type MockDestinationStore struct{ mock.Mock }

func (m *MockDestinationStore) CreateDestinations(ctx context.Context, records []types.DestinationRecord) ([]types.Destination, error) {
	args := m.Called(ctx, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Destination), args.Error(1)
}
func (m *MockDestinationStore) ListByTrip(ctx context.Context, tripID string) ([]types.Destination, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Destination), args.Error(1)
}

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

// MockUserStore implements store.UserStore
type MockUserStore struct{ mock.Mock }

func (m *MockUserStore) GetUser(ctx context.Context, id string) (*types.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}
func (m *MockUserStore) UpsertUser(ctx context.Context, user *types.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockIdentityResolver implements services.IdentityResolver
type MockIdentityResolver struct{ mock.Mock }

func (m *MockIdentityResolver) CurrentIdentity(ctx context.Context, accessToken string) (*services.Identity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Identity), args.Error(1)
}

// MockFileStorage implements service.FileStorage with URL building backed
// by a fixed base.
type MockFileStorage struct {
	mock.Mock
	base string
}

func newMockFileStorage() *MockFileStorage {
	return &MockFileStorage{base: "https://cdn.example.com/trip-images"}
}

func (m *MockFileStorage) Save(ctx context.Context, key, contentType string, reader io.Reader) error {
	args := m.Called(ctx, key, contentType, reader)
	return args.Error(0)
}
func (m *MockFileStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockFileStorage) PublicURL(key string) string {
	return m.base + "/" + key
}
func (m *MockFileStorage) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, m.base+"/") {
		return "", false
	}
	return strings.TrimPrefix(url, m.base+"/"), true
}

// fakeImageSource serves staged bytes from memory.
type fakeImageSource struct {
	files map[string]string
}

func (f *fakeImageSource) Open(key string) (io.ReadCloser, error) {
	content, ok := f.files[key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

// recordingNotifier captures notifications synchronously.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notified
}

type notified struct {
	userID   string
	severity types.NotificationSeverity
	message  string
}

func (r *recordingNotifier) Notify(userID string, severity types.NotificationSeverity, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, notified{userID: userID, severity: severity, message: message})
}

func (r *recordingNotifier) all() []notified {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notified(nil), r.calls...)
}
