package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/triplog/triplog-backend/errors"
	"github.com/triplog/triplog-backend/internal/store"
)

const defaultNotificationPageSize = 20

// NotificationHandler serves the persisted notification feed.
type NotificationHandler struct {
	notifications store.NotificationStore
}

func NewNotificationHandler(notifications store.NotificationStore) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotificationsHandler returns the caller's notifications, newest
// first.
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	userID := getUserIDFromContext(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultNotificationPageSize)))
	if limit <= 0 {
		limit = defaultNotificationPageSize
	}

	notifs, err := h.notifications.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifs})
}

// MarkReadHandler marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	userID := getUserIDFromContext(c)

	err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), userID)
	if errors.Is(err, store.ErrNotFound) {
		_ = c.Error(apperrors.NotFound("Notification", c.Param("id")))
		return
	}
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllReadHandler marks every unread notification of the caller as read.
func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	userID := getUserIDFromContext(c)

	if err := h.notifications.MarkAllRead(c.Request.Context(), userID); err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	c.Status(http.StatusNoContent)
}
