package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the httpOnly cookie carrying the session JWT issued by
// the Google login endpoint.
const SessionCookie = "todotodo_token"

type AuthConfig struct {
	DevMode   bool
	JWTSecret []byte
}

type Auth struct {
	cfg AuthConfig
}

func NewAuth(cfg AuthConfig) (*Auth, error) {
	if !cfg.DevMode && len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("middleware: JWTSecret is required when DevMode is false")
	}
	return &Auth{cfg: cfg}, nil
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth for health check and auth endpoints
		cleanPath := path.Clean(r.URL.Path)
		if cleanPath == "/health" || strings.HasPrefix(cleanPath, "/api/v1/auth/") {
			next.ServeHTTP(w, r)
			return
		}

		if a.cfg.DevMode {
			a.handleDevMode(w, r, next)
			return
		}

		a.handleSession(w, r, next)
	})
}

func (a *Auth) handleDevMode(w http.ResponseWriter, r *http.Request, next http.Handler) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "X-User-ID header required in dev mode")
		return
	}

	ctx := SetUserID(r.Context(), userID)
	next.ServeHTTP(w, r.WithContext(ctx))
}

func (a *Auth) handleSession(w http.ResponseWriter, r *http.Request, next http.Handler) {
	tokenStr := sessionToken(r)
	if tokenStr == "" {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "login required")
		return
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.cfg.JWTSecret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired session")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token claims")
		return
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sub claim not found")
		return
	}

	ctx := SetUserID(r.Context(), sub)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// sessionToken prefers the session cookie and falls back to a Bearer header,
// which the frontend uses when third-party cookies are blocked.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
