package types

import "time"

// Review rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a persisted trip review with an optional list of image URLs.
// Images is nil when the review has no images.
type Review struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewRecord carries the column values for a review insert.
type ReviewRecord struct {
	TripID  string
	UserID  string
	Content string
	Rating  int
	Images  []string
}

// ReviewUpdate holds the editable review fields.
type ReviewUpdate struct {
	Content string `json:"content" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
}

// ValidRating reports whether r is within the allowed 1..5 range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
