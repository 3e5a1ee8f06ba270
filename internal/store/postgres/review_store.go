package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/triplog/triplog-backend/internal/store"
	"github.com/triplog/triplog-backend/types"
)

// ReviewStore persists trip reviews. Image URLs live in a text[] column and
// stay NULL when the review has no images.
type ReviewStore struct {
	db DB
}

func NewReviewStore(db DB) *ReviewStore {
	return &ReviewStore{db: db}
}

const reviewColumns = `id, trip_id, user_id, content, rating, images, created_at`

func (s *ReviewStore) CreateReview(ctx context.Context, rec types.ReviewRecord) (*types.Review, error) {
	query := `
		INSERT INTO reviews (trip_id, user_id, content, rating, images)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	review := types.Review{
		TripID:  rec.TripID,
		UserID:  rec.UserID,
		Content: rec.Content,
		Rating:  rec.Rating,
		Images:  rec.Images,
	}
	err := s.db.QueryRow(ctx, query,
		rec.TripID, rec.UserID, rec.Content, rec.Rating, rec.Images,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

func (s *ReviewStore) GetReview(ctx context.Context, id string) (*types.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1`, reviewColumns)

	var r types.Review
	err := s.db.QueryRow(ctx, query, id).Scan(
		&r.ID, &r.TripID, &r.UserID, &r.Content, &r.Rating, &r.Images, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &r, nil
}

func (s *ReviewStore) UpdateReview(ctx context.Context, id string, update types.ReviewUpdate) (*types.Review, error) {
	query := fmt.Sprintf(`
		UPDATE reviews SET content = $1, rating = $2
		WHERE id = $3
		RETURNING %s`, reviewColumns)

	var r types.Review
	err := s.db.QueryRow(ctx, query, update.Content, update.Rating, id).Scan(
		&r.ID, &r.TripID, &r.UserID, &r.Content, &r.Rating, &r.Images, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return &r, nil
}

func (s *ReviewStore) ListByTrip(ctx context.Context, tripID string) ([]types.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reviews WHERE trip_id = $1
		ORDER BY created_at ASC`, reviewColumns)

	rows, err := s.db.Query(ctx, query, tripID)
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
