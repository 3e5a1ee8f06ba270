package service

import (
	"context"
	"errors"

	apperrors "github.com/triplog/triplog-backend/errors"
	"github.com/triplog/triplog-backend/internal/store"
	"github.com/triplog/triplog-backend/logger"
	"github.com/triplog/triplog-backend/types"
)

const (
	defaultPublicPageSize = 20
	maxPublicPageSize     = 100
)

// TripService serves the dashboard reads and trip deletion.
type TripService struct {
	trips   store.TripStore
	users   store.UserStore
	storage FileStorage
}

func NewTripService(trips store.TripStore, users store.UserStore, storage FileStorage) *TripService {
	return &TripService{trips: trips, users: users, storage: storage}
}

// GetTrip returns a trip visible to the caller: its owner, an admin, or
// anyone when the trip is public.
func (s *TripService) GetTrip(ctx context.Context, id, callerUserID string) (*types.Trip, error) {
	trip, err := s.trips.GetTrip(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.TripNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	if trip.IsPublic || trip.UserID == callerUserID || s.isAdmin(ctx, callerUserID) {
		return trip, nil
	}
	return nil, apperrors.Forbidden("trip_access_denied", "You do not have access to this trip")
}

// ListUserTrips returns targetUserID's trips. Non-admins may only list
// their own.
func (s *TripService) ListUserTrips(ctx context.Context, callerUserID, targetUserID string) ([]*types.Trip, error) {
	if targetUserID == "" {
		targetUserID = callerUserID
	}
	if targetUserID != callerUserID && !s.isAdmin(ctx, callerUserID) {
		return nil, apperrors.Forbidden("trip_access_denied", "You may only list your own trips")
	}

	trips, err := s.trips.ListUserTrips(ctx, targetUserID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return trips, nil
}

// ListPublicTrips returns the public feed, newest first.
func (s *TripService) ListPublicTrips(ctx context.Context, limit, offset int) ([]*types.Trip, error) {
	if limit <= 0 {
		limit = defaultPublicPageSize
	}
	if limit > maxPublicPageSize {
		limit = maxPublicPageSize
	}
	if offset < 0 {
		offset = 0
	}

	trips, err := s.trips.ListPublicTrips(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return trips, nil
}

// DeleteTrip soft-deletes a trip owned by the caller (or any trip for an
// admin) and removes its stored review images best-effort.
func (s *TripService) DeleteTrip(ctx context.Context, id, callerUserID string) error {
	log := logger.GetLogger()

	trip, err := s.trips.GetTrip(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.TripNotFoundError(id)
	}
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	if trip.UserID != callerUserID && !s.isAdmin(ctx, callerUserID) {
		return apperrors.Forbidden("trip_access_denied", "You may only delete your own trips")
	}

	if err := s.trips.SoftDeleteTrip(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.TripNotFoundError(id)
		}
		return apperrors.NewDatabaseError(err)
	}

	// Object removal never fails the delete; orphans are only logged.
	for _, review := range trip.Reviews {
		for _, url := range review.Images {
			key, ok := s.storage.KeyFromURL(url)
			if !ok {
				continue
			}
			if err := s.storage.Delete(ctx, key); err != nil {
				log.Warnw("Failed to delete trip image", "tripID", id, "key", key, "error", err)
			}
		}
	}
	return nil
}

func (s *TripService) isAdmin(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return false
	}
	return user.IsAdmin()
}
