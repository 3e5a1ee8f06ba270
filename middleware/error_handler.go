package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/triplog/triplog-backend/errors"
	"github.com/triplog/triplog-backend/logger"
)

// ErrorResponse is the JSON body emitted for any error set on the context.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ErrorHandler translates errors attached to the gin context into JSON
// responses. AppError carries its own HTTP status; anything else becomes a
// 500 without leaking internals.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if appError, ok := err.(*errors.AppError); ok {
			statusCode := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))

			if !c.Writer.Written() {
				c.JSON(statusCode, ErrorResponse{
					Type:    string(appError.Type),
					Message: appError.Message,
					Details: appError.Detail,
					Code:    strconv.Itoa(statusCode),
				})
			}
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unhandled error")
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Type:    string(errors.ServerError),
				Message: "Internal server error",
				Code:    strconv.Itoa(http.StatusInternalServerError),
			})
		}
	}
}
