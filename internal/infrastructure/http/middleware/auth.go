package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tasktrack/platform/internal/domain"
	"github.com/tasktrack/platform/internal/infrastructure/http/response"
)

// authCookieName is the same-site credential carrier; cross-site callers use
// the Authorization header instead (§6).
const authCookieName = "auth_token"

type contextKey int

const userIDContextKey contextKey = iota

// TokenVerifier is the subset of auth.Service the middleware depends on.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (domain.JWTClaims, error)
}

// Auth is HTTP middleware for bearer/cookie JWT authentication.
type Auth struct {
	verifier TokenVerifier
}

// NewAuth creates a new auth middleware.
func NewAuth(verifier TokenVerifier) *Auth {
	return &Auth{verifier: verifier}
}

// Validate is a Chi middleware that authenticates requests via a
// Bearer Authorization header or an auth_token cookie, in that order, and
// stores the resolved user id in the request context for handlers to read
// with UserIDFromContext.
func (a *Auth) Validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			token = cookieToken(r)
		}
		if token == "" {
			slog.WarnContext(r.Context(), "authentication failed: no credential presented",
				"path", r.URL.Path, "method", r.Method)
			response.Fail(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing or invalid credential")
			return
		}

		claims, err := a.verifier.VerifyToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				slog.WarnContext(r.Context(), "authentication failed: invalid or expired token",
					"path", r.URL.Path, "method", r.Method)
			} else {
				slog.ErrorContext(r.Context(), "authentication failed: unexpected error",
					"path", r.URL.Path, "method", r.Method, "error", err)
			}
			response.Fail(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing or invalid credential")
			return
		}

		slog.DebugContext(r.Context(), "authentication successful",
			"path", r.URL.Path, "method", r.Method, "user_id", claims.UserID)

		ctx := context.WithValue(r.Context(), userIDContextKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return ""
	}
	return token
}

func cookieToken(r *http.Request) string {
	c, err := r.Cookie(authCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// UserIDFromContext returns the authenticated caller's user id. Handlers
// reached through Auth.Validate may call this unconditionally.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok
}
