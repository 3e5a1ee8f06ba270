package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/triplog/triplog-backend/internal/store"
	"github.com/triplog/triplog-backend/logger"
	"github.com/triplog/triplog-backend/types"
)

// TripStore persists trips and hydrates their destinations and reviews.
type TripStore struct {
	db DB
}

func NewTripStore(db DB) *TripStore {
	return &TripStore{db: db}
}

const tripColumns = `id, user_id, title, start_date::text, end_date::text, description, is_public, created_at`

func (s *TripStore) CreateTrip(ctx context.Context, rec types.TripRecord) (*types.Trip, error) {
	log := logger.GetLogger()

	query := `
		INSERT INTO trips (user_id, title, start_date, end_date, description, is_public)
		VALUES ($1, $2, $3::date, $4::date, $5, $6)
		RETURNING id, created_at`

	trip := types.Trip{
		UserID:       rec.UserID,
		Title:        rec.Title,
		StartDate:    rec.StartDate,
		EndDate:      rec.EndDate,
		Description:  rec.Description,
		IsPublic:     rec.IsPublic,
		Destinations: []types.Destination{},
		Reviews:      []types.Review{},
	}

	err := s.db.QueryRow(ctx, query,
		rec.UserID, rec.Title, rec.StartDate, rec.EndDate, rec.Description, rec.IsPublic,
	).Scan(&trip.ID, &trip.CreatedAt)
	if err != nil {
		log.Errorw("Failed to create trip", "userID", rec.UserID, "error", err)
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	return &trip, nil
}

func (s *TripStore) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips WHERE id = $1 AND deleted_at IS NULL`, tripColumns)

	var trip types.Trip
	err := s.db.QueryRow(ctx, query, id).Scan(
		&trip.ID, &trip.UserID, &trip.Title, &trip.StartDate, &trip.EndDate,
		&trip.Description, &trip.IsPublic, &trip.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	if err := s.loadChildren(ctx, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (s *TripStore) ListUserTrips(ctx context.Context, userID string) ([]*types.Trip, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM trips
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY start_date DESC, created_at DESC`, tripColumns)

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips, err := scanTrips(rows)
	if err != nil {
		return nil, err
	}
	for _, trip := range trips {
		if err := s.loadChildren(ctx, trip); err != nil {
			return nil, err
		}
	}
	return trips, nil
}

func (s *TripStore) ListPublicTrips(ctx context.Context, limit, offset int) ([]*types.Trip, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM trips
		WHERE is_public = TRUE AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, tripColumns)

	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list public trips: %w", err)
	}
	defer rows.Close()

	trips, err := scanTrips(rows)
	if err != nil {
		return nil, err
	}
	for _, trip := range trips {
		if err := s.loadChildren(ctx, trip); err != nil {
			return nil, err
		}
	}
	return trips, nil
}

func (s *TripStore) SoftDeleteTrip(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE trips SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *TripStore) loadChildren(ctx context.Context, trip *types.Trip) error {
	dests, err := s.listDestinations(ctx, trip.ID)
	if err != nil {
		return err
	}
	reviews, err := s.listReviews(ctx, trip.ID)
	if err != nil {
		return err
	}
	trip.Destinations = dests
	trip.Reviews = reviews
	return nil
}

func (s *TripStore) listDestinations(ctx context.Context, tripID string) ([]types.Destination, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, name, description, day, order_num, created_at
		FROM destinations WHERE trip_id = $1
		ORDER BY order_num ASC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	defer rows.Close()

	dests := []types.Destination{}
	for rows.Next() {
		var d types.Destination
		if err := rows.Scan(&d.ID, &d.TripID, &d.Name, &d.Description, &d.Day, &d.OrderNum, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan destination: %w", err)
		}
		dests = append(dests, d)
	}
	return dests, rows.Err()
}

func (s *TripStore) listReviews(ctx context.Context, tripID string) ([]types.Review, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, user_id, content, rating, images, created_at
		FROM reviews WHERE trip_id = $1
		ORDER BY created_at ASC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []types.Review{}
	for rows.Next() {
		var r types.Review
		if err := rows.Scan(&r.ID, &r.TripID, &r.UserID, &r.Content, &r.Rating, &r.Images, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func scanTrips(rows pgx.Rows) ([]*types.Trip, error) {
	trips := []*types.Trip{}
	for rows.Next() {
		var t types.Trip
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.StartDate, &t.EndDate,
			&t.Description, &t.IsPublic, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		t.Destinations = []types.Destination{}
		t.Reviews = []types.Review{}
		trips = append(trips, &t)
	}
	return trips, rows.Err()
}
