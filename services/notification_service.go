package services

import (
	"context"
	"time"

	"github.com/triplog/triplog-backend/internal/store"
	"github.com/triplog/triplog-backend/logger"
	"github.com/triplog/triplog-backend/types"
)

// Notifier delivers user-facing messages, the server-side counterpart of
// the client's toast calls. Delivery must never gate or delay the flow
// that emits it.
type Notifier interface {
	Notify(userID string, severity types.NotificationSeverity, message string)
}

// NotificationService persists notifications asynchronously. Each Notify
// call writes one row on its own goroutine with a fresh timeout context,
// so a slow or failing insert cannot stall a submission.
type NotificationService struct {
	store   store.NotificationStore
	timeout time.Duration
}

func NewNotificationService(store store.NotificationStore) *NotificationService {
	return &NotificationService{
		store:   store,
		timeout: 5 * time.Second,
	}
}

func (s *NotificationService) Notify(userID string, severity types.NotificationSeverity, message string) {
	go func() {
		log := logger.GetLogger()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		n := &types.Notification{
			UserID:   userID,
			Severity: severity,
			Message:  message,
		}
		if _, err := s.store.CreateNotification(ctx, n); err != nil {
			log.Errorw("Failed to persist notification",
				"userID", userID, "severity", severity, "error", err)
		}
	}()
}
