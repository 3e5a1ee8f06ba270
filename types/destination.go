package types

import "time"

// Destination is a persisted stop within a trip. OrderNum is 1-based and
// reflects the position the entry held in the draft at save time.
type Destination struct {
	ID          string    `json:"id"`
	TripID      string    `json:"trip_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Day         *int      `json:"day"`
	OrderNum    int       `json:"order_num"`
	CreatedAt   time.Time `json:"created_at"`
}

// DestinationRecord carries the column values for a destination insert.
type DestinationRecord struct {
	TripID      string
	Name        string
	Description *string
	Day         *int
	OrderNum    int
}
