// Package handlers contains the gin HTTP handlers for the API surface.
package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/triplog/triplog-backend/errors"
	"github.com/triplog/triplog-backend/middleware"
)

// getUserIDFromContext extracts the authenticated user ID from the Gin
// context. Returns empty string if not found (caller should handle
// unauthorized response).
func getUserIDFromContext(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

// getAccessTokenFromContext extracts the raw bearer token stored by the
// auth middleware.
func getAccessTokenFromContext(c *gin.Context) string {
	return c.GetString(middleware.AccessTokenKey)
}

// bindJSONOrError binds JSON request body and sets a validation error if
// binding fails. Returns true if binding succeeded.
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid_request_payload", err.Error()))
		return false
	}
	return true
}
