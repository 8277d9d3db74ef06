package auth

import (
	"context"

	"github.com/tasktrack/platform/internal/domain"
)

// Repository is the durable store behind Service: user identity rows and
// the session audit/revocation trail.
type Repository interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// PutSession upserts the caller's one active session row, mirroring the
	// original's "one session per user" bookkeeping: login/signup replace
	// whatever session previously existed for the user rather than
	// accumulating one row per login.
	PutSession(ctx context.Context, s domain.Session) error
	DeleteSessionsForUser(ctx context.Context, userID string) error
}

// DecodeCache is the optional JWT-decode result cache (5-minute TTL) in
// front of signature verification. Entries expire by TTL only; the number of
// entries is not capped. A nil DecodeCache disables
// caching; every Verify call re-parses and re-verifies the token.
type DecodeCache interface {
	Get(ctx context.Context, token string) (domain.JWTClaims, bool, error)
	Set(ctx context.Context, token string, claims domain.JWTClaims) error
}
