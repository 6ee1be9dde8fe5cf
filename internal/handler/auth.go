package handler

import (
	"net/http"
	"time"

	"github.com/segyhp/loan-ledger/internal/auth"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/service"
	"github.com/segyhp/loan-ledger/pkg/response"

	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	service      *service.AuthService
	validator    *validator.Validate
	cookieSecure bool
}

func NewAuthHandler(service *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		service:      service,
		validator:    NewValidator(),
		cookieSecure: cookieSecure,
	}
}

// Login checks the shared password and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request domain.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	token, err := h.service.Login(r.Context(), request.Password)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	ttl := h.service.SessionTTL()
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	response.Success(w, domain.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(ttl).UTC(),
	})
}

// Logout drops the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), sessionToken(r)); err != nil {
		response.FromError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	response.Message(w, "Logged out")
}

// Check reports whether the caller holds a live session
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.Authenticate(r.Context(), sessionToken(r))
	response.Success(w, domain.AuthCheckResponse{Authenticated: err == nil})
}

// Me returns the authenticated principal
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}
	response.Success(w, principal)
}

// ChangePassword replaces the shared password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var request domain.ChangePasswordRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), &request); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Message(w, "Password changed")
}
