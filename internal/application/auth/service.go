// Package auth implements the signup/login/logout/me surface the Task API
// orchestrator exposes at /auth/*: user identity persistence, bcrypt
// password hashing, and JWT issuance/verification with an optional
// decode-result cache.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tasktrack/platform/internal/domain"
)

// Service is stateless: every operation loads from Repository, mutates,
// returns — the same stateless-per-request model the Conversation Store
// follows.
type Service struct {
	repo   Repository
	tokens *TokenIssuer
	cache  DecodeCache
	expiry time.Duration
	now    func() time.Time
}

func NewService(repo Repository, tokens *TokenIssuer, cache DecodeCache, expiry time.Duration) *Service {
	return &Service{repo: repo, tokens: tokens, cache: cache, expiry: expiry, now: func() time.Time { return time.Now().UTC() }}
}

// AuthResult is what signup/login hand back to the HTTP layer: the user row
// (never the password hash — callers project id/email/created_at) plus the
// bearer token to set as both the response body's `token` field and the
// HTTP-only cookie.
type AuthResult struct {
	User  domain.User
	Token string
}

// Signup validates email/password, rejects a duplicate email as CONFLICT,
// hashes the password, and creates the user and its session row.
func (s *Service) Signup(ctx context.Context, email, password string) (AuthResult, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return AuthResult{}, err
	}
	if err := validatePassword(password); err != nil {
		return AuthResult{}, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return AuthResult{}, &domain.ConflictError{Entity: "user", Value: email}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return AuthResult{}, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return AuthResult{}, err
	}

	now := s.now()
	user := domain.User{ID: ulid.Make().String(), Email: email, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}

	return s.issueAndPersist(ctx, created)
}

// Login verifies credentials, returning the same generic invalid-credentials
// error regardless of whether the email doesn't exist or the password is
// wrong (prevents account enumeration, matching the original's behavior).
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = normalizeEmail(email)
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, domain.ErrUnauthenticated
		}
		return AuthResult{}, err
	}
	if !verifyPassword(user.PasswordHash, password) {
		return AuthResult{}, domain.ErrUnauthenticated
	}
	return s.issueAndPersist(ctx, user)
}

func (s *Service) issueAndPersist(ctx context.Context, user domain.User) (AuthResult, error) {
	token, claims, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return AuthResult{}, err
	}
	session := domain.Session{
		ID: ulid.Make().String(), UserID: user.ID,
		IssuedAt: claims.IssuedAt, ExpiresAt: claims.ExpiresAt,
	}
	if err := s.repo.PutSession(ctx, session); err != nil {
		// Session is an audit/revocation surface, not the credential check
		// itself — its write failing doesn't invalidate an otherwise valid
		// issued token.
		slog.ErrorContext(ctx, "auth: session row write failed after token issuance", "user_id", user.ID, "error", err)
	}
	return AuthResult{User: user, Token: token}, nil
}

// Logout deletes the caller's session rows. Per the stateless-JWT decision,
// this is audit cleanup only: the bearer token itself remains valid until
// its natural expiry, so the HTTP layer must also clear the cookie.
func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.repo.DeleteSessionsForUser(ctx, userID)
}

// Me resolves the authenticated user's own profile.
func (s *Service) Me(ctx context.Context, userID string) (domain.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// VerifyToken checks a bearer token's signature/issuer/audience/expiry,
// consulting the decode cache first when one is configured. This is what
// the HTTP auth middleware calls on every request.
func (s *Service) VerifyToken(ctx context.Context, token string) (domain.JWTClaims, error) {
	if s.cache != nil {
		if claims, ok, err := s.cache.Get(ctx, token); err == nil && ok {
			return claims, nil
		}
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return domain.JWTClaims{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, token, claims); err != nil {
			slog.WarnContext(ctx, "auth: decode cache write failed", "error", err)
		}
	}
	return claims, nil
}
