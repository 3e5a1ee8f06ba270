package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// DBPinger is the connectivity check surface of the database pool.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and dependency health.
type HealthHandler struct {
	db      DBPinger
	redis   *redis.Client
	version string
}

func NewHealthHandler(db DBPinger, redisClient *redis.Client, version string) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, version: version}
}

// LivenessCheck handles the liveness probe.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ReadinessCheck reports whether the service can reach its dependencies.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	status, components := h.checkComponents(c.Request.Context())

	code := http.StatusOK
	if status == "down" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "components": components})
}

// DetailedHealth reports dependency health plus build information.
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	status, components := h.checkComponents(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"version":    h.version,
		"components": components,
	})
}

func (h *HealthHandler) checkComponents(ctx context.Context) (string, gin.H) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := "up"
	components := gin.H{}

	dbStatus := "up"
	if err := h.db.Ping(ctx); err != nil {
		dbStatus = "down"
		status = "down"
	}
	components["database"] = dbStatus

	redisStatus := "up"
	if err := h.redis.Ping(ctx).Err(); err != nil {
		// Redis only serves rate limiting; report degraded, not down.
		redisStatus = "down"
		if status == "up" {
			status = "degraded"
		}
	}
	components["redis"] = redisStatus

	return status, components
}
