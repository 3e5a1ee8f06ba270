package services

import (
	"context"
	"strings"

	"github.com/supabase-community/supabase-go"

	"github.com/triplog/triplog-backend/errors"
	"github.com/triplog/triplog-backend/internal/store"
	"github.com/triplog/triplog-backend/logger"
	"github.com/triplog/triplog-backend/types"
)

// Identity is the confirmed auth session owner at a point in time.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
}

// IdentityResolver confirms who owns an access token right now. Submission
// re-checks identity against the auth provider rather than trusting the
// JWT claims alone, matching the client's getUser call before writes.
type IdentityResolver interface {
	CurrentIdentity(ctx context.Context, accessToken string) (*Identity, error)
}

// SupabaseIdentityService resolves identities against Supabase auth and
// mirrors the confirmed user into the local users table.
type SupabaseIdentityService struct {
	client *supabase.Client
	users  store.UserStore
}

func NewSupabaseIdentityService(client *supabase.Client, users store.UserStore) *SupabaseIdentityService {
	return &SupabaseIdentityService{client: client, users: users}
}

func (s *SupabaseIdentityService) CurrentIdentity(ctx context.Context, accessToken string) (*Identity, error) {
	log := logger.GetLogger()

	if strings.TrimSpace(accessToken) == "" {
		return nil, errors.AuthenticationFailed("No active session")
	}

	resp, err := s.client.Auth.WithToken(accessToken).GetUser()
	if err != nil {
		log.Warnw("Supabase identity lookup failed", "error", err)
		return nil, errors.AuthenticationFailed("Failed to confirm session identity")
	}

	ident := &Identity{
		UserID:      resp.ID.String(),
		Email:       resp.Email,
		DisplayName: displayNameFrom(resp.UserMetadata, resp.Email),
	}

	// Best-effort profile sync; a failed upsert never blocks the caller.
	user := &types.User{ID: ident.UserID, Email: ident.Email, DisplayName: ident.DisplayName}
	if err := s.users.UpsertUser(ctx, user); err != nil {
		log.Warnw("Failed to sync user profile", "userID", ident.UserID, "error", err)
	}

	return ident, nil
}

func displayNameFrom(metadata map[string]interface{}, email string) string {
	if name, ok := metadata["name"].(string); ok && name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
