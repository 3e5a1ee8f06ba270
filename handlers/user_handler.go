package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/triplog/triplog-backend/errors"
	"github.com/triplog/triplog-backend/internal/store"
)

// UserHandler serves the authenticated user's profile.
type UserHandler struct {
	users store.UserStore
}

func NewUserHandler(users store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// GetCurrentUserHandler returns the caller's profile row.
func (h *UserHandler) GetCurrentUserHandler(c *gin.Context) {
	userID := getUserIDFromContext(c)

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		_ = c.Error(apperrors.NotFound("User", userID))
		return
	}
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	c.JSON(http.StatusOK, user)
}
