package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	tripservice "github.com/triplog/triplog-backend/models/trip/service"
)

// TripHandler serves the dashboard and public trip reads plus deletion.
type TripHandler struct {
	trips *tripservice.TripService
}

func NewTripHandler(trips *tripservice.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

// ListTripsHandler returns the caller's trips, newest first. Admins may
// pass ?user_id= to list another user's trips.
func (h *TripHandler) ListTripsHandler(c *gin.Context) {
	userID := getUserIDFromContext(c)
	target := c.Query("user_id")

	trips, err := h.trips.ListUserTrips(c.Request.Context(), userID, target)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// ListPublicTripsHandler returns the public feed. No authentication
// required.
func (h *TripHandler) ListPublicTripsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	trips, err := h.trips.ListPublicTrips(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GetTripHandler returns a single trip visible to the caller.
func (h *TripHandler) GetTripHandler(c *gin.Context) {
	userID := getUserIDFromContext(c)

	trip, err := h.trips.GetTrip(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// DeleteTripHandler soft-deletes a trip owned by the caller.
func (h *TripHandler) DeleteTripHandler(c *gin.Context) {
	userID := getUserIDFromContext(c)

	if err := h.trips.DeleteTrip(c.Request.Context(), c.Param("id"), userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
