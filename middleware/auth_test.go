package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplog/triplog-backend/config"
)

const testSecret = "test-jwt-secret-which-is-long-enough"

// mintToken signs a token with a different JWT library than the validator
// uses, so the check crosses implementations.
func mintToken(t *testing.T, secret string, claims gojwt.MapClaims) string {
	t.Helper()
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

type capturedAuth struct {
	userID string
	token  string
}

func authTestRouter() (*gin.Engine, *capturedAuth) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	captured := &capturedAuth{}
	r.Use(AuthMiddleware(&config.SupabaseConfig{JWTSecret: testSecret}))
	r.GET("/protected", func(c *gin.Context) {
		captured.userID = c.GetString(UserIDKey)
		captured.token = c.GetString(AccessTokenKey)
		c.JSON(http.StatusOK, gin.H{"user_id": captured.userID})
	})
	return r, captured
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r, captured := authTestRouter()

	token := mintToken(t, testSecret, gojwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", captured.userID)
	assert.Equal(t, token, captured.token)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	r, _ := authTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	r, _ := authTestRouter()

	token := mintToken(t, testSecret, gojwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	r, _ := authTestRouter()

	token := mintToken(t, "some-other-secret-entirely-here", gojwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
