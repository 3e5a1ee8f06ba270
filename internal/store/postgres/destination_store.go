package postgres

import (
	"context"
	"fmt"

	"github.com/triplog/triplog-backend/logger"
	"github.com/triplog/triplog-backend/types"
)

// DestinationStore persists trip destinations.
type DestinationStore struct {
	db DB
}

func NewDestinationStore(db DB) *DestinationStore {
	return &DestinationStore{db: db}
}

// CreateDestinations inserts all records in one transaction. Either every
// destination is saved or none are, and the returned rows keep the input
// order.
func (s *DestinationStore) CreateDestinations(ctx context.Context, recs []types.DestinationRecord) ([]types.Destination, error) {
	if len(recs) == 0 {
		return []types.Destination{}, nil
	}

	log := logger.GetLogger()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO destinations (trip_id, name, description, day, order_num)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	dests := make([]types.Destination, 0, len(recs))
	for _, rec := range recs {
		d := types.Destination{
			TripID:      rec.TripID,
			Name:        rec.Name,
			Description: rec.Description,
			Day:         rec.Day,
			OrderNum:    rec.OrderNum,
		}
		err := tx.QueryRow(ctx, query,
			rec.TripID, rec.Name, rec.Description, rec.Day, rec.OrderNum,
		).Scan(&d.ID, &d.CreatedAt)
		if err != nil {
			log.Errorw("Failed to create destination", "tripID", rec.TripID, "orderNum", rec.OrderNum, "error", err)
			return nil, fmt.Errorf("failed to create destination: %w", err)
		}
		dests = append(dests, d)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit destinations: %w", err)
	}
	return dests, nil
}

func (s *DestinationStore) ListByTrip(ctx context.Context, tripID string) ([]types.Destination, error) {
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
