package domain

import "time"

// JWTClaims is the decoded payload of an access token: subject user id,
// email, and the standard issued-at/expiry pair. Issuer and audience are
// fixed constants checked at verification time, not carried here.
type JWTClaims struct {
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// User is the platform identity a verified bearer credential ultimately
// resolves to a UserID of. The identity-provider protocol itself is out of
// scope; this module only needs somewhere to land the opaque hash the
// signup/login boundary produces and compares.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is an audit/revocation record written alongside JWT issuance.
// The verified-identity hot path checks the JWT only — a Session row is a
// point-in-time audit trail and a hook for future revocation, not the
// primary credential check, so a deleted Session does not itself invalidate
// an otherwise still-valid, unexpired JWT.
type Session struct {
	ID        string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	UserAgent string
}
