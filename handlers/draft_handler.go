package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/triplog/triplog-backend/errors"
	"github.com/triplog/triplog-backend/internal/draft"
	"github.com/triplog/triplog-backend/logger"
	"github.com/triplog/triplog-backend/types"
)

// TripSubmitter runs the submission chain for a draft snapshot.
// *service.SubmissionService satisfies it.
type TripSubmitter interface {
	Submit(ctx context.Context, accessToken, callerUserID string, snapshot draft.State, selectedDate time.Time) (*types.Trip, error)
}

// DraftHandler exposes the per-user trip draft: state reads, action
// dispatch, image staging with previews, and submission.
type DraftHandler struct {
	manager    *draft.Manager
	submission TripSubmitter
}

func NewDraftHandler(manager *draft.Manager, submission TripSubmitter) *DraftHandler {
	return &DraftHandler{manager: manager, submission: submission}
}

// GetDraftHandler returns the caller's current draft state, creating a
// fresh one on first access.
func (h *DraftHandler) GetDraftHandler(c *gin.Context) {
	userID := getUserIDFromContext(c)
	c.JSON(http.StatusOK, h.manager.State(userID))
}

// DispatchActionHandler applies a single draft action and returns the
// resulting state.
func (h *DraftHandler) DispatchActionHandler(c *gin.Context) {
	userID := getUserIDFromContext(c)

	var action draft.Action
	if !bindJSONOrError(c, &action) {
		return
	}

	state, err := h.manager.Dispatch(userID, action)
	if errors.Is(err, draft.ErrUnknownAction) {
		_ = c.Error(apperrors.ValidationFailed("unknown_action", "Unknown draft action type"))
		return
	}
	if err != nil {
		_ = c.Error(apperrors.InternalServerError("Failed to apply draft action"))
		return
	}
	c.JSON(http.StatusOK, state)
}

// StageImagesHandler accepts a multipart upload of one or more images and
// stages them for the draft.
func (h *DraftHandler) StageImagesHandler(c *gin.Context) {
	userID := getUserIDFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid_multipart", err.Error()))
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		_ = c.Error(apperrors.ValidationFailed("no_images", "At least one image file is required"))
		return
	}

	var state draft.State
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			_ = c.Error(apperrors.ValidationFailed("unreadable_upload", err.Error()))
			return
		}
		state, err = h.manager.StageImage(userID, fh.Filename, f)
		f.Close()
		if err != nil {
			_ = c.Error(apperrors.ValidationFailed("invalid_image", err.Error()))
			return
		}
	}
	c.JSON(http.StatusOK, state)
}

// PreviewImageHandler serves the staged bytes behind a preview token.
func (h *DraftHandler) PreviewImageHandler(c *gin.Context) {
	token := c.Param("token")

	path, contentType, ok := h.manager.Staging().Resolve(token)
	if !ok {
		_ = c.Error(apperrors.NotFound("Preview", token))
		return
	}
	c.Header("Content-Type", contentType)
	c.File(path)
}

// DiscardDraftHandler drops the caller's draft and releases all staged
// images.
func (h *DraftHandler) DiscardDraftHandler(c *gin.Context) {
	userID := getUserIDFromContext(c)
	h.manager.Discard(userID)
	c.Status(http.StatusNoContent)
}

// SubmitDraftHandler runs the submission chain for the caller's draft.
func (h *DraftHandler) SubmitDraftHandler(c *gin.Context) {
	log := logger.GetLogger()
	userID := getUserIDFromContext(c)

	var req struct {
		Date string `json:"date" binding:"required"`
	}
	if !bindJSONOrError(c, &req) {
		return
	}
	selectedDate, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid_date", "Date must be YYYY-MM-DD"))
		return
	}

	snapshot, err := h.manager.BeginSubmit(userID)
	if errors.Is(err, draft.ErrEmptyLocation) {
		_ = c.Error(apperrors.ValidationFailed("empty_location", "Location is required"))
		return
	}
	if errors.Is(err, draft.ErrSubmitInFlight) {
		_ = c.Error(apperrors.New(apperrors.ConflictError, "Submission already in progress", ""))
		return
	}
	if err != nil {
		_ = c.Error(apperrors.InternalServerError("Failed to start submission"))
		return
	}

	trip, err := h.submission.Submit(c.Request.Context(), getAccessTokenFromContext(c), userID, snapshot, selectedDate)
	h.manager.FinishSubmit(userID, err == nil)
	if err != nil {
		log.Warnw("Trip submission failed", "userID", userID, "error", err)
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}
