package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tasktrack/platform/internal/domain"
)

const (
	tokenIssuer   = "tasktrack-api"
	tokenAudience = "tasktrack-client"
)

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 access tokens carrying {sub, email,
// exp, iat, iss, aud}, grounded on the original service's JWT contract.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds a TokenIssuer. secret must be non-empty — callers
// enforce JWT_SECRET being set at boot (FATAL_CONFIG otherwise), not here.
func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expiry: expiry, now: func() time.Time { return time.Now().UTC() }}
}

func (t *TokenIssuer) Issue(userID, email string) (string, domain.JWTClaims, error) {
	now := t.now()
	exp := now.Add(t.expiry)
	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", domain.JWTClaims{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, domain.JWTClaims{UserID: userID, Email: email, IssuedAt: now, ExpiresAt: exp}, nil
}

// Verify parses and validates the token's signature, issuer, audience, and
// expiry, returning the decoded claims. Never consults a cache itself — that
// is Service's job, layered in front of Verify.
func (t *TokenIssuer) Verify(tokenString string) (domain.JWTClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience))
	if err != nil {
		return domain.JWTClaims{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return domain.JWTClaims{}, errors.New("auth: malformed token claims")
	}
	issuedAt := time.Time{}
	if c.IssuedAt != nil {
		issuedAt = c.IssuedAt.Time
	}
	expiresAt := time.Time{}
	if c.ExpiresAt != nil {
		expiresAt = c.ExpiresAt.Time
	}
	return domain.JWTClaims{UserID: c.Subject, Email: c.Email, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}
