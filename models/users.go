package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleVA     = "va"
	RoleClient = "client"
)

// ValidRole reports whether role is one of the known portal roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleVA, RoleClient:
		return true
	}
	return false
}

// User represents a portal user profile.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UsersResponse holds a list of users.
type UsersResponse struct {
	Users []User `json:"users"`
}

// UserResponse represents a response with a single user.
type UserResponse struct {
	User User `json:"user"`
}

// SignupRequest is the payload for creating a user.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// SigninRequest is the payload for exchanging credentials for a session.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserUpdate holds the admin-editable fields of a user. Nil fields are left unchanged.
type UserUpdate struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
}

// Session is the token pair handed to a signed in user.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// SigninResponse is returned from signin and refresh.
type SigninResponse struct {
	Message string  `json:"message"`
	User    User    `json:"user"`
	Session Session `json:"session"`
}

// SignupResponse is returned when a user is created.
type SignupResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}
