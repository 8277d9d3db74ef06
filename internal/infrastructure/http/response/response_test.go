package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/platform/internal/domain"
	"github.com/tasktrack/platform/internal/infrastructure/http/response"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&env))
	return env
}

func TestOK_SuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	response.OK(w, map[string]string{"id": "123"}, response.Popup("TASK_CREATED"))

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.Equal(t, "application/json", w.Result().Header.Get("Content-Type"))

	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "TASK_CREATED", *env.Popup)
	assert.Nil(t, env.Error)
}

func TestCreated_SuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	response.Created(w, map[string]string{"id": "new"}, nil)

	assert.Equal(t, http.StatusCreated, w.Result().StatusCode)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Nil(t, env.Popup)
}

func TestFromDomainError_NotFoundMapsTo404(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/tasks/abc", nil)

	response.FromDomainError(w, r, &domain.NotFoundError{Entity: "task", ID: "abc"})

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestFromDomainError_ForbiddenMapsTo403(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/tasks/abc", nil)

	response.FromDomainError(w, r, &domain.ForbiddenError{Entity: "task", ID: "abc"})

	assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestFromDomainError_ValidationMapsTo400WithDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/tasks", nil)

	response.FromDomainError(w, r, &domain.ValidationError{Field: "title", Message: "required field missing"})

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "VALIDATION", env.Error.Code)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "title", env.Error.Details[0].Field)
}

func TestFromDomainError_UnauthenticatedMapsTo401(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)

	response.FromDomainError(w, r, domain.ErrUnauthenticated)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Code)
}

func TestFromDomainError_ConflictMapsTo409(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/signup", nil)

	response.FromDomainError(w, r, &domain.ConflictError{Entity: "user", Value: "a@example.com"})

	assert.Equal(t, http.StatusConflict, w.Result().StatusCode)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestFromDomainError_UnknownMapsTo500Transient(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/tasks", nil)

	response.FromDomainError(w, r, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "TRANSIENT", env.Error.Code)
}
