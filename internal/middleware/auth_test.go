package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jaekwang-park/todotodo-api/internal/middleware"
)

var testSecret = []byte("test-secret")

func sessionToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-1",
		"email": "user@example.com",
		"name":  "Test User",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func newAuth(t *testing.T, cfg middleware.AuthConfig) *middleware.Auth {
	t.Helper()
	auth, err := middleware.NewAuth(cfg)
	if err != nil {
		t.Fatalf("failed to create auth middleware: %v", err)
	}
	return auth
}

func TestNewAuth_RequiresSecret(t *testing.T) {
	if _, err := middleware.NewAuth(middleware.AuthConfig{DevMode: false}); err == nil {
		t.Fatal("expected error without JWT secret, got nil")
	}
}

func TestAuth_DevMode(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{DevMode: true})

	var capturedUserID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedUserID = middleware.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		userIDHdr  string
		wantStatus int
		wantUserID string
	}{
		{"with X-User-ID", "dev-user-1", http.StatusOK, "dev-user-1"},
		{"without X-User-ID", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capturedUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
			if tt.userIDHdr != "" {
				req.Header.Set("X-User-ID", tt.userIDHdr)
			}
			w := httptest.NewRecorder()

			auth.Middleware(inner).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if capturedUserID != tt.wantUserID {
				t.Errorf("expected userID %q, got %q", tt.wantUserID, capturedUserID)
			}
		})
	}
}

func TestAuth_SessionCookie(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{JWTSecret: testSecret})

	var capturedUserID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedUserID = middleware.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	req.AddCookie(&http.Cookie{
		Name:  middleware.SessionCookie,
		Value: sessionToken(t, testSecret, validClaims()),
	})
	w := httptest.NewRecorder()

	auth.Middleware(inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if capturedUserID != "user-1" {
		t.Errorf("expected userID=user-1, got %q", capturedUserID)
	}
}

func TestAuth_BearerFallback(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{JWTSecret: testSecret})

	var capturedUserID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedUserID = middleware.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, testSecret, validClaims()))
	w := httptest.NewRecorder()

	auth.Middleware(inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if capturedUserID != "user-1" {
		t.Errorf("expected userID=user-1, got %q", capturedUserID)
	}
}

func TestAuth_SessionErrors(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{JWTSecret: testSecret})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "no token",
			token: func(t *testing.T) string { return "" },
		},
		{
			name:  "garbage token",
			token: func(t *testing.T) string { return "not-a-jwt" },
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return sessionToken(t, []byte("other-secret"), validClaims())
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				claims := validClaims()
				claims["exp"] = time.Now().Add(-time.Hour).Unix()
				return sessionToken(t, testSecret, claims)
			},
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				claims := validClaims()
				delete(claims, "exp")
				return sessionToken(t, testSecret, claims)
			},
		},
		{
			name: "missing sub",
			token: func(t *testing.T) string {
				claims := validClaims()
				delete(claims, "sub")
				return sessionToken(t, testSecret, claims)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
			if tok := tt.token(t); tok != "" {
				req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: tok})
			}
			w := httptest.NewRecorder()

			auth.Middleware(inner).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", w.Code)
			}
		})
	}
}

func TestAuth_SkipsPublicPaths(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{JWTSecret: testSecret})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/health", "/api/v1/auth/google", "/api/v1/auth/logout"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, nil)
			w := httptest.NewRecorder()

			auth.Middleware(inner).ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("expected status 200 for %s without credentials, got %d", path, w.Code)
			}
		})
	}
}
