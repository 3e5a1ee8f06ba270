package types

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is the local profile row mirroring a Supabase auth user.
// The ID is the Supabase user id (uuid), so auth subjects map 1:1.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        UserRole  `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user may act on other users' trips.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
