package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reviewservice "github.com/triplog/triplog-backend/models/review/service"
	"github.com/triplog/triplog-backend/types"
)

// ReviewHandler serves review edits.
type ReviewHandler struct {
	reviews *reviewservice.ReviewService
}

func NewReviewHandler(reviews *reviewservice.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// UpdateReviewHandler applies an owner's edit to a review's content and
// rating.
func (h *ReviewHandler) UpdateReviewHandler(c *gin.Context) {
	userID := getUserIDFromContext(c)

	var update types.ReviewUpdate
	if !bindJSONOrError(c, &update) {
		return
	}

	review, err := h.reviews.UpdateReview(c.Request.Context(), c.Param("id"), userID, update)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, review)
}
