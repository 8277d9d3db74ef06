package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/platform/internal/domain"
)

type fakeVerifier struct {
	claims map[string]domain.JWTClaims
}

func (f *fakeVerifier) VerifyToken(_ context.Context, token string) (domain.JWTClaims, error) {
	c, ok := f.claims[token]
	if !ok {
		return domain.JWTClaims{}, domain.ErrUnauthenticated
	}
	return c, nil
}

func newTestHandler(t *testing.T) (http.Handler, *fakeVerifier) {
	t.Helper()
	verifier := &fakeVerifier{claims: map[string]domain.JWTClaims{"good-token": {UserID: "u1"}}}
	a := NewAuth(verifier)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return a.Validate(next), verifier
}

func TestValidate_AcceptsBearerToken(t *testing.T) {
	handler, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidate_AcceptsCookie(t *testing.T) {
	handler, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: "good-token"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidate_RejectsMissingCredential(t *testing.T) {
	handler, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidate_RejectsInvalidToken(t *testing.T) {
	handler, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidate_PropagatesUserIDToContext(t *testing.T) {
	verifier := &fakeVerifier{claims: map[string]domain.JWTClaims{"good-token": {UserID: "u42"}}}
	a := NewAuth(verifier)
	var gotUserID string
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotOK = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()

	a.Validate(next).ServeHTTP(w, req)

	require.True(t, gotOK)
	assert.Equal(t, "u42", gotUserID)
}
