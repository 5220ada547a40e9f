// internal/auth/models.go
// Data structures for the authentication system.

package auth

import (
	"time"
)

// User represents a user in our system
// Tags like `json` control JSON serialization, `db` maps to database columns
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	RefreshToken *string   `json:"-" db:"refresh_token"` // Nullable: set on login, cleared on logout
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RegisterRequest is what the client sends to create an account
// Validation tags ensure data quality at the API boundary
type RegisterRequest struct {
	Username string `json:"user" validate:"required,min=3,max=30,alphanum"`
	Password string `json:"pwd" validate:"required,min=8,max=100"`
}

// LoginRequest handles username login
type LoginRequest struct {
	Username string `json:"user" validate:"required"`
	Password string `json:"pwd" validate:"required"`
}

// LoginResult is what the service returns after successful authentication.
// The refresh token travels back to the client as an httpOnly cookie only.
type LoginResult struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
}
