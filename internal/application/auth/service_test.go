package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/platform/internal/domain"
)

type fakeRepo struct {
	byEmail  map[string]domain.User
	byID     map[string]domain.User
	sessions map[string]domain.Session
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]domain.User{}, byID: map[string]domain.User{}, sessions: map[string]domain.Session{}}
}

func (f *fakeRepo) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, &domain.NotFoundError{Entity: "user", ID: email}
	}
	return u, nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, id string) (domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, &domain.NotFoundError{Entity: "user", ID: id}
	}
	return u, nil
}

func (f *fakeRepo) PutSession(_ context.Context, s domain.Session) error {
	f.sessions[s.UserID] = s
	return nil
}

func (f *fakeRepo) DeleteSessionsForUser(_ context.Context, userID string) error {
	delete(f.sessions, userID)
	return nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, NewTokenIssuer("test-secret", 30*24*time.Hour), nil, 30*24*time.Hour)
}

func TestSignup_CreatesUserAndIssuesToken(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	result, err := svc.Signup(context.Background(), "New@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", result.User.Email)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, repo.sessions[result.User.ID])
}

func TestSignup_DuplicateEmailIsConflict(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), "dup@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "dup@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLogin_WrongPasswordIsUnauthenticated(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "user@example.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestLogin_UnknownEmailIsUnauthenticated(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestLogin_CorrectCredentialsSucceed(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestVerifyToken_RoundTripsIssuedToken(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	result, err := svc.Signup(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)

	claims, err := svc.VerifyToken(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
}

func TestLogout_RemovesSession(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	result, err := svc.Signup(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, repo.sessions[result.User.ID])

	err = svc.Logout(context.Background(), result.User.ID)
	require.NoError(t, err)
	_, stillPresent := repo.sessions[result.User.ID]
	assert.False(t, stillPresent)
}
