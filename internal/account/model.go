package account

import (
	"time"

	"github.com/vietcare/platform/internal/shared/types"
)

// User is a platform account. Role is the integer role column:
// 0 patient, 1 doctor, 2 admin.
type User struct {
	ID             types.ID  `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	Role           int       `json:"role"`
	HashedPassword string    `json:"-"`
	FullName       string    `json:"full_name,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Patient is the profile row auto-created for every registered user.
type Patient struct {
	ID        types.ID  `json:"id"`
	UserID    types.ID  `json:"user_id"`
	FullName  string    `json:"full_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
