package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/jaekwang-park/todotodo-api/internal/middleware"
	"github.com/jaekwang-park/todotodo-api/internal/model"
	"github.com/jaekwang-park/todotodo-api/internal/service"
)

const maxAuthBodySize = 1 << 20 // 1 MB

// CookieConfig controls the session cookie issued on login. Secure implies
// SameSite=None so the cookie survives cross-site requests from the frontend
// origin; local development over plain HTTP falls back to Lax.
type CookieConfig struct {
	Secure bool
}

func (c CookieConfig) sameSite() http.SameSite {
	if c.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	svc    *service.AuthService
	cookie CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie}
}

// ServeHTTP routes /api/v1/auth/* requests.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/auth/")
	path = strings.TrimRight(path, "/")

	switch path {
	case "google":
		h.requirePost(w, r, h.handleGoogleLogin)
	case "logout":
		h.requirePost(w, r, h.handleLogout)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

func (h *AuthHandler) requirePost(w http.ResponseWriter, r *http.Request, handler func(http.ResponseWriter, *http.Request)) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAuthBodySize)
	handler(w, r)
}

type googleLoginRequest struct {
	Credential string `json:"credential"`
}

type loginResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

func (h *AuthHandler) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	out, err := h.svc.LoginWithGoogle(r.Context(), req.Credential)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    out.Token,
		Path:     "/",
		MaxAge:   int(time.Until(out.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.sameSite(),
	})

	// Token is also returned in the body for clients that block
	// third-party cookies and send it as a Bearer header instead.
	WriteJSON(w, http.StatusOK, loginResponse{User: out.User, Token: out.Token})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.sameSite(),
	})

	WriteJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}
