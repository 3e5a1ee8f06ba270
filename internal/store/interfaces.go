// Package store defines the data access interfaces for the application.
// Implementations live in subpackages (postgres) and mocks in tests.
package store

import (
	"context"

	"github.com/triplog/triplog-backend/types"
)

// TripStore handles trip persistence. Reads return trips with their
// destinations and reviews populated (non-nil, possibly empty).
type TripStore interface {
	CreateTrip(ctx context.Context, record types.TripRecord) (*types.Trip, error)
	GetTrip(ctx context.Context, id string) (*types.Trip, error)
	ListUserTrips(ctx context.Context, userID string) ([]*types.Trip, error)
	ListPublicTrips(ctx context.Context, limit, offset int) ([]*types.Trip, error)
	SoftDeleteTrip(ctx context.Context, id string) error
}

// DestinationStore handles destination persistence.
type DestinationStore interface {
	// CreateDestinations bulk-inserts the records and returns the persisted
	// rows in the same order.
	CreateDestinations(ctx context.Context, records []types.DestinationRecord) ([]types.Destination, error)
	ListByTrip(ctx context.Context, tripID string) ([]types.Destination, error)
}

// ReviewStore handles review persistence.
type ReviewStore interface {
	CreateReview(ctx context.Context, record types.ReviewRecord) (*types.Review, error)
	GetReview(ctx context.Context, id string) (*types.Review, error)
	UpdateReview(ctx context.Context, id string, update types.ReviewUpdate) (*types.Review, error)
	ListByTrip(ctx context.Context, tripID string) ([]types.Review, error)
}

// UserStore handles profile rows mirroring Supabase auth users.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*types.User, error)
	UpsertUser(ctx context.Context, user *types.User) error
}

// NotificationStore persists user-facing notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *types.Notification) (string, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]types.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}
