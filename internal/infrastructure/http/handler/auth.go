package handler

import (
	"net/http"
	"time"

	"github.com/tasktrack/platform/internal/infrastructure/http/response"
)

const authCookieName = "auth_token"

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	Message string   `json:"message"`
	User    userView `json:"user"`
	Token   string   `json:"token"`
}

// Signup handles POST /auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.Auth.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	setAuthCookie(w, result.Token)
	response.Created(w, authResponse{
		Message: "account created",
		User:    userView{ID: result.User.ID, Email: result.User.Email, CreatedAt: result.User.CreatedAt},
		Token:   result.Token,
	}, nil)
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	setAuthCookie(w, result.Token)
	response.OK(w, authResponse{
		Message: "logged in",
		User:    userView{ID: result.User.ID, Email: result.User.Email, CreatedAt: result.User.CreatedAt},
		Token:   result.Token,
	}, nil)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context(), userID(r)); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	clearAuthCookie(w)
	response.OK(w, map[string]string{"message": "logged out"}, nil)
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Auth.Me(r.Context(), userID(r))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, userView{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt}, nil)
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
