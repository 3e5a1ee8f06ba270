// Package service implements review editing for the journal surface.
package service

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/triplog/triplog-backend/errors"
	"github.com/triplog/triplog-backend/internal/store"
	"github.com/triplog/triplog-backend/types"
)

// ReviewService handles edits to persisted reviews.
type ReviewService struct {
	reviews store.ReviewStore
}

func NewReviewService(reviews store.ReviewStore) *ReviewService {
	return &ReviewService{reviews: reviews}
}

// UpdateReview applies an owner's edit to content and rating. The stored
// image list is untouched.
func (s *ReviewService) UpdateReview(ctx context.Context, id, callerUserID string, update types.ReviewUpdate) (*types.Review, error) {
	update.Content = strings.TrimSpace(update.Content)
	if update.Content == "" {
		return nil, apperrors.ValidationFailed("empty_content", "Review content is required")
	}
	if !types.ValidRating(update.Rating) {
		return nil, apperrors.ValidationFailed("invalid_rating", "Rating must be between 1 and 5")
	}

	review, err := s.reviews.GetReview(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("Review", id)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	if review.UserID != callerUserID {
		return nil, apperrors.Forbidden("review_access_denied", "You may only edit your own reviews")
	}

	updated, err := s.reviews.UpdateReview(ctx, id, update)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("Review", id)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return updated, nil
}
