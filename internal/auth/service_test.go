package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	users  map[int64]*User
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: map[int64]*User{}, nextID: 1}
}

func (f *fakeRepository) CreateUser(ctx context.Context, user *User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return ErrUserExists
		}
	}
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*User, error) {
	for _, user := range f.users {
		if user.RefreshToken != nil && *user.RefreshToken == refreshToken {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := f.GetUserByUsername(ctx, username)
	return err == nil, nil
}

func (f *fakeRepository) SetRefreshToken(ctx context.Context, userID int64, refreshToken *string) error {
	user, ok := f.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.RefreshToken = refreshToken
	return nil
}

func (f *fakeRepository) ClearRefreshToken(ctx context.Context, refreshToken string) error {
	for _, user := range f.users {
		if user.RefreshToken != nil && *user.RefreshToken == refreshToken {
			user.RefreshToken = nil
		}
	}
	return nil
}

func testService(repo Repository) Service {
	return NewService(repo, nil, &Config{
		JWTSecret:          "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		BCryptCost:         4,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeRepository()
	svc := testService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{Username: "Alice", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.PasswordHash)

	result, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	require.NotNil(t, repo.users[user.ID].RefreshToken)
	assert.Equal(t, result.RefreshToken, *repo.users[user.ID].RefreshToken)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := testService(newFakeRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "bob", Password: "secret99"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterRequest{Username: "Bob", Password: "other111"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := testService(newFakeRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "carol", Password: "correct1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Username: "carol", Password: "wrong111"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := testService(newFakeRepository())

	_, err := svc.Login(context.Background(), &LoginRequest{Username: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	svc := testService(newFakeRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "dave", Password: "secret99"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, &LoginRequest{Username: "dave", Password: "secret99"})
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, result.User.ID, claims.UserID)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	svc := testService(newFakeRepository())

	_, err := svc.Refresh(context.Background(), "not-a-stored-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutClearsRefreshToken(t *testing.T) {
	repo := newFakeRepository()
	svc := testService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{Username: "erin", Password: "secret99"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, &LoginRequest{Username: "erin", Password: "secret99"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RefreshToken))
	assert.Nil(t, repo.users[user.ID].RefreshToken)

	// Logging out twice is fine
	assert.NoError(t, svc.Logout(ctx, result.RefreshToken))
}

func TestGetUserByID(t *testing.T) {
	repo := newFakeRepository()
	svc := testService(repo)
	ctx := context.Background()

	created, err := svc.Register(ctx, &RegisterRequest{Username: "grace", Password: "secret99"})
	require.NoError(t, err)

	user, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "grace", user.Username)

	_, err = svc.GetUserByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAccessTokenDoesNotRefresh(t *testing.T) {
	svc := testService(newFakeRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "frank", Password: "secret99"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, &LoginRequest{Username: "frank", Password: "secret99"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, result.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
