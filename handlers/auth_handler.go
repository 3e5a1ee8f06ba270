package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gotruetypes "github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"

	"github.com/triplog/triplog-backend/config"
	apperrors "github.com/triplog/triplog-backend/errors"
	"github.com/triplog/triplog-backend/logger"
)

// AuthHandler delegates credential flows to Supabase auth.
type AuthHandler struct {
	supabase *supabase.Client
	config   *config.Config
}

func NewAuthHandler(supabaseClient *supabase.Client, cfg *config.Config) *AuthHandler {
	return &AuthHandler{supabase: supabaseClient, config: cfg}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// SignupHandler registers a new Supabase user.
func (h *AuthHandler) SignupHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req credentialsRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	resp, err := h.supabase.Auth.Signup(gotruetypes.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		log.Warnw("Signup failed", "email", logger.MaskEmail(req.Email), "error", err)
		_ = c.Error(apperrors.ValidationFailed("signup_failed", "Could not create account"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    resp.ID.String(),
		"email": resp.Email,
	})
}

// LoginHandler exchanges credentials for a Supabase session.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req credentialsRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	session, err := h.supabase.Auth.SignInWithEmailPassword(req.Email, req.Password)
	if err != nil {
		log.Warnw("Login failed", "email", logger.MaskEmail(req.Email), "error", err)
		_ = c.Error(apperrors.AuthenticationFailed("Invalid email or password"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_in":    session.ExpiresIn,
		"token_type":    "bearer",
	})
}

// RefreshTokenHandler exchanges a refresh token for a new session.
func (h *AuthHandler) RefreshTokenHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if !bindJSONOrError(c, &req) {
		return
	}

	session, err := h.supabase.Auth.RefreshToken(req.RefreshToken)
	if err != nil {
		log.Warnw("Failed to refresh token", "error", err)
		_ = c.Error(apperrors.Unauthorized("refresh_failed", "Failed to refresh token"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_in":    session.ExpiresIn,
		"token_type":    "bearer",
	})
}
