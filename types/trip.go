package types

import "time"

// Trip is a journal entry: a titled visit to a place on a single calendar
// day, optionally public, owning ordered destinations and reviews.
//
// StartDate and EndDate are calendar dates in YYYY-MM-DD form. They are kept
// as strings end-to-end because the value is a user-selected local calendar
// day; converting through time.Time risks off-by-one shifts across timezones.
type Trip struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Description *string   `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`

	// Always non-nil once a trip is returned to a caller, possibly empty.
	Destinations []Destination `json:"destinations"`
	Reviews      []Review      `json:"reviews"`
}

// TripRecord carries the column values for a trip insert.
type TripRecord struct {
	UserID      string
	Title       string
	StartDate   string
	EndDate     string
	Description *string
	IsPublic    bool
}
