package types

import "time"

// NotificationSeverity mirrors the toast severities of the web client.
type NotificationSeverity string

const (
	SeverityInfo    NotificationSeverity = "info"
	SeverityWarning NotificationSeverity = "warning"
	SeverityError   NotificationSeverity = "error"
)

// Notification is a persisted user-facing message, the server-side stand-in
// for the client's toast sink. Delivery is fire-and-forget; rows that fail
// to persist are only logged.
type Notification struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	Message   string               `json:"message"`
	Severity  NotificationSeverity `json:"severity"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"created_at"`
}
