// internal/auth/service.go
// Service layer contains all business logic for authentication.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/movieduel/movieduel-backend/internal/common/utils"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTooManyAttempts    = errors.New("too many attempts")
)

// Service interface
type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*User, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error

	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
	GetUserByID(ctx context.Context, userID int64) (*User, error)
}

// Config holds service configuration
type Config struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	BCryptCost         int
}

// service implementation
type service struct {
	repo   Repository
	redis  *redis.Client
	config *Config
}

// NewService creates a new auth service
func NewService(repo Repository, redisClient *redis.Client, config *Config) Service {
	return &service{
		repo:   repo,
		redis:  redisClient,
		config: config,
	}
}

// Register creates a new user account
func (s *service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	if taken, err := s.repo.IsUsernameTaken(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username:     username,
		PasswordHash: string(hash),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
// The refresh token is persisted on the user row so it can be revoked.
func (s *service) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	if err := s.checkLoginAttempts(ctx, username); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if err == ErrUserNotFound {
			s.recordLoginAttempt(ctx, username)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordLoginAttempt(ctx, username)
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateToken(user, "access", s.config.AccessTokenExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateToken(user, "refresh", s.config.RefreshTokenExpiry)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	s.cacheUser(ctx, user)

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
// The token must still be stored on a user row - logged out tokens are dead.
func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	user, err := s.repo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if err == ErrUserNotFound {
			return "", ErrInvalidToken
		}
		return "", err
	}

	claims, err := utils.ValidateJWT(refreshToken, s.config.JWTSecret)
	if err != nil || claims.Type != "refresh" || claims.UserID != user.ID {
		return "", ErrInvalidToken
	}

	return s.generateToken(user, "access", s.config.AccessTokenExpiry)
}

// Logout invalidates the stored refresh token
func (s *service) Logout(ctx context.Context, refreshToken string) error {
	user, err := s.repo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if err == ErrUserNotFound {
			// Nothing to clear; logout is idempotent
			return nil
		}
		return err
	}

	s.uncacheUser(ctx, user.ID)
	return s.repo.ClearRefreshToken(ctx, refreshToken)
}

// ValidateToken parses and validates an access or refresh token
func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetUserByID fetches a user, going through the Redis cache when available
func (s *service) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	if s.redis != nil {
		key := fmt.Sprintf("user:%d", userID)
		if data, err := s.redis.Get(ctx, key).Result(); err == nil {
			var user User
			if err := json.Unmarshal([]byte(data), &user); err == nil {
				return &user, nil
			}
		}
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cacheUser(ctx, user)
	return user, nil
}

// generateToken creates a signed JWT of the given type
func (s *service) generateToken(user *User, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &utils.JWTClaims{
		UserID:    user.ID,
		Username:  user.Username,
		Type:      tokenType,
		ExpiresAt: now.Add(expiry).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "movieduel",
		Subject:   fmt.Sprintf("%d", user.ID),
	}

	return utils.GenerateJWT(claims, s.config.JWTSecret)
}

// cacheUser stores a user in Redis for fast middleware lookups
func (s *service) cacheUser(ctx context.Context, user *User) {
	if s.redis == nil {
		return
	}
	if data, err := json.Marshal(user); err == nil {
		s.redis.Set(ctx, fmt.Sprintf("user:%d", user.ID), data, 30*time.Minute)
	}
}

func (s *service) uncacheUser(ctx context.Context, userID int64) {
	if s.redis == nil {
		return
	}
	s.redis.Del(ctx, fmt.Sprintf("user:%d", userID))
}

// checkLoginAttempts enforces a simple per-username rate limit in Redis
func (s *service) checkLoginAttempts(ctx context.Context, username string) error {
	if s.redis == nil {
		return nil
	}
	count, err := s.redis.Get(ctx, "login_attempts:"+username).Int()
	if err == nil && count >= 5 {
		return ErrTooManyAttempts
	}
	return nil
}

func (s *service) recordLoginAttempt(ctx context.Context, username string) {
	if s.redis == nil {
		return
	}
	key := "login_attempts:" + username
	s.redis.Incr(ctx, key)
	s.redis.Expire(ctx, key, 15*time.Minute)
}
