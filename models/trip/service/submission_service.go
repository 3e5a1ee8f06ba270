package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/triplog/triplog-backend/errors"
	"github.com/triplog/triplog-backend/internal/draft"
	"github.com/triplog/triplog-backend/internal/store"
	"github.com/triplog/triplog-backend/logger"
	"github.com/triplog/triplog-backend/services"
	"github.com/triplog/triplog-backend/types"
)

// User-facing messages, matching the web client's toasts.
const (
	msgAuthFailed        = "정보를 확인할 수 없습니다. 다시 로그인해주세요."
	msgTripSaveFailed    = "여행 저장에 실패했습니다."
	msgDestSaveFailed    = "여행지 정보 저장에 실패했습니다."
	msgImageUploadFailed = "이미지 업로드에 실패했습니다. 리뷰는 저장되지만 이미지는 포함되지 않습니다."
	msgReviewSaveFailed  = "리뷰 저장에 실패했습니다."
)

// ImageSource opens staged image bytes by key. *draft.Staging satisfies it.
type ImageSource interface {
	Open(key string) (io.ReadCloser, error)
}

// SubmissionService turns a draft snapshot into persisted rows and uploaded
// objects. The step order is fixed: identity, trip insert, destinations,
// image uploads, review. Only the first two are fatal; later steps degrade
// to a warning notification and a smaller result.
type SubmissionService struct {
	trips        store.TripStore
	destinations store.DestinationStore
	reviews      store.ReviewStore
	identity     services.IdentityResolver
	storage      FileStorage
	images       ImageSource
	notifier     services.Notifier
	metrics      *services.SubmissionMetrics
}

func NewSubmissionService(
	trips store.TripStore,
	destinations store.DestinationStore,
	reviews store.ReviewStore,
	identity services.IdentityResolver,
	storage FileStorage,
	images ImageSource,
	notifier services.Notifier,
) *SubmissionService {
	return &SubmissionService{
		trips:        trips,
		destinations: destinations,
		reviews:      reviews,
		identity:     identity,
		storage:      storage,
		images:       images,
		notifier:     notifier,
		metrics:      services.GetSubmissionMetrics(),
	}
}

// Submit runs the submission chain for a draft snapshot. The returned trip
// carries exactly what persisted; Destinations and Reviews are never nil.
// A nil trip with an error means nothing was written beyond, at most, the
// identity sync.
func (s *SubmissionService) Submit(ctx context.Context, accessToken, callerUserID string, snapshot draft.State, selectedDate time.Time) (*types.Trip, error) {
	log := logger.GetLogger()

	// The chain must finish even if the client goes away mid-flight.
	ctx = context.WithoutCancel(ctx)

	location := strings.TrimSpace(snapshot.Location)
	if location == "" {
		return nil, apperrors.ValidationFailed("empty_location", "Location is required")
	}

	ident, err := s.identity.CurrentIdentity(ctx, accessToken)
	if err != nil {
		s.notifier.Notify(callerUserID, types.SeverityError, msgAuthFailed)
		s.metrics.RecordOutcome("failed")
		return nil, err
	}
	userID := ident.UserID
	if callerUserID != "" && userID != callerUserID {
		// The confirmed session identity wins over the JWT claim.
		log.Warnw("Session identity differs from caller",
			"sessionUserID", userID, "callerUserID", callerUserID)
	}

	content := strings.TrimSpace(snapshot.ReviewContent)
	var description *string
	if content != "" {
		description = &content
	}

	trip, err := s.trips.CreateTrip(ctx, types.TripRecord{
		UserID:      userID,
		Title:       location,
		StartDate:   selectedDate.Format("2006-01-02"),
		EndDate:     selectedDate.Format("2006-01-02"),
		Description: description,
		IsPublic:    snapshot.IsPublic,
	})
	if err != nil {
		log.Errorw("Trip insert failed", "userID", userID, "error", err)
		s.notifier.Notify(userID, types.SeverityError, msgTripSaveFailed)
		s.metrics.RecordOutcome("failed")
		return nil, apperrors.NewDatabaseError(err)
	}

	partial := false

	if len(snapshot.Destinations) > 0 {
		recs := make([]types.DestinationRecord, len(snapshot.Destinations))
		for i, d := range snapshot.Destinations {
			var desc *string
			if d.Description != "" {
				dd := d.Description
				desc = &dd
			}
			day := d.Day
			recs[i] = types.DestinationRecord{
				TripID:      trip.ID,
				Name:        d.Name,
				Description: desc,
				Day:         &day,
				OrderNum:    i + 1,
			}
		}
		dests, err := s.destinations.CreateDestinations(ctx, recs)
		if err != nil {
			log.Errorw("Destination insert failed", "tripID", trip.ID, "error", err)
			s.notifier.Notify(userID, types.SeverityWarning, msgDestSaveFailed)
			s.metrics.RecordStepError("destinations")
			partial = true
		} else {
			trip.Destinations = dests
		}
	}

	var imageURLs []string
	if len(snapshot.StagedImages) > 0 {
		urls, err := s.uploadImages(ctx, userID, trip.ID, snapshot.StagedImages)
		if err != nil {
			log.Errorw("Image upload failed", "tripID", trip.ID, "error", err)
			s.notifier.Notify(userID, types.SeverityWarning, msgImageUploadFailed)
			s.metrics.RecordStepError("images")
			partial = true
		} else {
			imageURLs = urls
		}
	}

	if content != "" {
		review, err := s.reviews.CreateReview(ctx, types.ReviewRecord{
			TripID:  trip.ID,
			UserID:  userID,
			Content: content,
			Rating:  snapshot.Rating,
			Images:  imageURLs,
		})
		if err != nil {
			log.Errorw("Review insert failed", "tripID", trip.ID, "error", err)
			s.notifier.Notify(userID, types.SeverityWarning, msgReviewSaveFailed)
			s.metrics.RecordStepError("review")
			partial = true
		} else {
			trip.Reviews = append(trip.Reviews, *review)
		}
	}

	if partial {
		s.metrics.RecordOutcome("partial")
	} else {
		s.metrics.RecordOutcome("success")
	}
	return trip, nil
}

// uploadImages pushes every staged image to object storage. The batch is
// all-or-nothing: on any failure the already uploaded objects are removed
// best-effort and no URLs are returned.
func (s *SubmissionService) uploadImages(ctx context.Context, userID, tripID string, images []draft.StagedImage) ([]string, error) {
	millis := time.Now().UnixMilli()

	uploaded := make([]string, 0, len(images))
	urls := make([]string, 0, len(images))
	for i, img := range images {
		key := fmt.Sprintf("%s/%s/%d-%d%s", userID, tripID, millis, i, filepath.Ext(img.FileName))

		rc, err := s.images.Open(img.Key)
		if err != nil {
			s.cleanupUploads(ctx, uploaded)
			return nil, fmt.Errorf("failed to open staged image %q: %w", img.Key, err)
		}
		err = s.storage.Save(ctx, key, img.ContentType, rc)
		rc.Close()
		if err != nil {
			s.cleanupUploads(ctx, uploaded)
			return nil, err
		}

		uploaded = append(uploaded, key)
		urls = append(urls, s.storage.PublicURL(key))
	}
	return urls, nil
}

func (s *SubmissionService) cleanupUploads(ctx context.Context, keys []string) {
	log := logger.GetLogger()
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			log.Warnw("Failed to clean up uploaded image", "key", key, "error", err)
		}
	}
}
