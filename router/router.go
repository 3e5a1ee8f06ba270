// Package router wires middleware and handlers into the gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/triplog/triplog-backend/config"
	"github.com/triplog/triplog-backend/handlers"
	"github.com/triplog/triplog-backend/middleware"
	"github.com/triplog/triplog-backend/services"
)

// Dependencies holds everything required for setting up routes.
type Dependencies struct {
	Config              *config.Config
	RateLimiter         services.RateLimiterInterface
	AuthHandler         *handlers.AuthHandler
	DraftHandler        *handlers.DraftHandler
	TripHandler         *handlers.TripHandler
	ReviewHandler       *handlers.ReviewHandler
	NotificationHandler *handlers.NotificationHandler
	UserHandler         *handlers.UserHandler
	HealthHandler       *handlers.HealthHandler
}

// SetupRouter configures and returns the main gin engine with all routes.
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.Server.Environment == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	if deps.RateLimiter != nil {
		v1.Use(middleware.APIRateLimiter(deps.RateLimiter, deps.Config.RateLimit.RequestsPerMinute))
	}
	{
		// Public surface
		v1.POST("/auth/signup", deps.AuthHandler.SignupHandler)
		v1.POST("/auth/login", deps.AuthHandler.LoginHandler)
		v1.POST("/auth/refresh", deps.AuthHandler.RefreshTokenHandler)
		v1.GET("/trips/public", deps.TripHandler.ListPublicTripsHandler)

		authRoutes := v1.Group("")
		authRoutes.Use(middleware.AuthMiddleware(&deps.Config.Supabase))
		{
			tripRoutes := authRoutes.Group("/trips")
			{
				tripRoutes.GET("", deps.TripHandler.ListTripsHandler)
				tripRoutes.GET("/:id", deps.TripHandler.GetTripHandler)
				tripRoutes.DELETE("/:id", deps.TripHandler.DeleteTripHandler)
			}

			authRoutes.PUT("/reviews/:id", deps.ReviewHandler.UpdateReviewHandler)

			draftRoutes := authRoutes.Group("/dashboard/draft")
			{
				draftRoutes.GET("", deps.DraftHandler.GetDraftHandler)
				draftRoutes.DELETE("", deps.DraftHandler.DiscardDraftHandler)
				draftRoutes.POST("/actions", deps.DraftHandler.DispatchActionHandler)
				draftRoutes.POST("/images", deps.DraftHandler.StageImagesHandler)
				draftRoutes.GET("/images/:token", deps.DraftHandler.PreviewImageHandler)
				draftRoutes.POST("/submit", deps.DraftHandler.SubmitDraftHandler)
			}

			notificationRoutes := authRoutes.Group("/notifications")
			{
				notificationRoutes.GET("", deps.NotificationHandler.ListNotificationsHandler)
				notificationRoutes.PATCH("/:id/read", deps.NotificationHandler.MarkReadHandler)
				notificationRoutes.PATCH("/read-all", deps.NotificationHandler.MarkAllReadHandler)
			}

			authRoutes.GET("/users/me", deps.UserHandler.GetCurrentUserHandler)
		}
	}

	return r
}
