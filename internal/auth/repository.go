// internal/auth/repository.go
// Repository pattern isolates database queries from business logic.

package auth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository interface defines all database operations for auth
// Using an interface makes testing easier - we can create mock implementations
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*User, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)

	// Refresh token lifecycle: stored on the user row, one active token per user
	SetRefreshToken(ctx context.Context, userID int64, refreshToken *string) error
	ClearRefreshToken(ctx context.Context, refreshToken string) error
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// CreateUser inserts a new user into the database
func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
        INSERT INTO users (username, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		// Check if it's a unique constraint violation
		if pgErr, ok := err.(*pq.Error); ok {
			if pgErr.Code == "23505" { // unique_violation
				return ErrUserExists
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID
func (r *postgresRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	query := `
        SELECT id, username, password_hash, refresh_token, created_at, updated_at
        FROM users
        WHERE id = $1`

	err := r.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (r *postgresRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	query := `
        SELECT id, username, password_hash, refresh_token, created_at, updated_at
        FROM users
        WHERE username = $1`

	err := r.db.GetContext(ctx, &user, query, username)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByRefreshToken finds the user holding a refresh token
func (r *postgresRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*User, error) {
	var user User
	query := `
        SELECT id, username, password_hash, refresh_token, created_at, updated_at
        FROM users
        WHERE refresh_token = $1`

	err := r.db.GetContext(ctx, &user, query, refreshToken)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// IsUsernameTaken checks whether a username already exists
func (r *postgresRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	err := r.db.GetContext(ctx, &exists, query, username)
	return exists, err
}

// SetRefreshToken stores (or clears, with nil) the user's refresh token
func (r *postgresRepository) SetRefreshToken(ctx context.Context, userID int64, refreshToken *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = NOW() WHERE id = $1`,
		userID, refreshToken)
	return err
}

// ClearRefreshToken invalidates a refresh token wherever it is stored
func (r *postgresRepository) ClearRefreshToken(ctx context.Context, refreshToken string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token = NULL, updated_at = NOW() WHERE refresh_token = $1`,
		refreshToken)
	return err
}
