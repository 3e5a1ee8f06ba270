package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/triplog/triplog-backend/config"
	"github.com/triplog/triplog-backend/logger"
)

const (
	// UserIDKey is the gin context key holding the authenticated user id.
	UserIDKey = "user_id"
	// AccessTokenKey holds the raw bearer token for downstream identity
	// re-checks against Supabase.
	AccessTokenKey = "access_token"
)

// AuthMiddleware validates the Supabase-issued Bearer token and puts the
// subject and the raw token into the request context.
func AuthMiddleware(cfg *config.SupabaseConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		authHeader := c.GetHeader("Authorization")
		token := ""
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization required",
			})
			return
		}

		userID, err := validateJWT(token, cfg.JWTSecret)
		if err != nil {
			log.Warnw("Invalid JWT token",
				"error", err,
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP())

			message := "Invalid authentication token"
			if strings.Contains(err.Error(), "exp") {
				message = "Your session has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": message,
			})
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(AccessTokenKey, token)
		c.Next()
	}
}

// validateJWT verifies the HS256 signature and standard claims and returns
// the token subject.
func validateJWT(tokenString, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT secret is not configured")
	}

	tokenObj, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256, []byte(secret)),
		jwt.WithValidate(true),
	)
	if err != nil {
		return "", err
	}
	return tokenObj.Subject(), nil
}
