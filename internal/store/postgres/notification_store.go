package postgres

import (
	"context"
	"fmt"

	"github.com/triplog/triplog-backend/internal/store"
	"github.com/triplog/triplog-backend/types"
)

// NotificationStore persists per-user notifications.
type NotificationStore struct {
	db DB
}

func NewNotificationStore(db DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) CreateNotification(ctx context.Context, n *types.Notification) (string, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, severity, message)
		VALUES ($1, $2, $3)
		RETURNING id, read, created_at`, n.UserID, n.Severity, n.Message).
		Scan(&n.ID, &n.Read, &n.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}
	return n.ID, nil
}

func (s *NotificationStore) ListByUser(ctx context.Context, userID string, limit int) ([]types.Notification, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, severity, message, read, created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifs := []types.Notification{}
	for rows.Next() {
		var n types.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Severity, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

func (s *NotificationStore) MarkRead(ctx context.Context, id, userID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
