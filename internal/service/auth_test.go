package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jaekwang-park/todotodo-api/internal/googleauth"
	"github.com/jaekwang-park/todotodo-api/internal/model"
	"github.com/jaekwang-park/todotodo-api/internal/service"
)

type mockVerifier struct {
	verifyFunc func(ctx context.Context, idToken string) (googleauth.Claims, error)
}

func (m *mockVerifier) Verify(ctx context.Context, idToken string) (googleauth.Claims, error) {
	return m.verifyFunc(ctx, idToken)
}

type mockUserRepo struct {
	upsertFunc  func(ctx context.Context, email, name string) (model.User, error)
	getByIDFunc func(ctx context.Context, userID string) (model.User, error)
}

func (m *mockUserRepo) Upsert(ctx context.Context, email, name string) (model.User, error) {
	return m.upsertFunc(ctx, email, name)
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID string) (model.User, error) {
	return m.getByIDFunc(ctx, userID)
}

var authSecret = []byte("test-secret")

func TestAuthService_LoginWithGoogle(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(ctx context.Context, idToken string) (googleauth.Claims, error) {
			if idToken != "valid-credential" {
				t.Errorf("expected credential forwarded to verifier, got %q", idToken)
			}
			return googleauth.Claims{Sub: "google-sub", Email: "user@example.com", Name: "Test User"}, nil
		},
	}

	var upsertedEmail, upsertedName string
	users := &mockUserRepo{
		upsertFunc: func(ctx context.Context, email, name string) (model.User, error) {
			upsertedEmail, upsertedName = email, name
			return model.User{ID: "user-1", Email: email, Name: name}, nil
		},
	}

	svc := service.NewAuthService(verifier, users, authSecret, 7*24*time.Hour)

	out, err := svc.LoginWithGoogle(context.Background(), "valid-credential")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if upsertedEmail != "user@example.com" || upsertedName != "Test User" {
		t.Errorf("expected upsert with verified claims, got email=%q name=%q", upsertedEmail, upsertedName)
	}
	if out.User.ID != "user-1" {
		t.Errorf("expected user from repository, got %+v", out.User)
	}

	token, err := jwt.Parse(out.Token, func(token *jwt.Token) (any, error) {
		return authSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("failed to parse issued token: %v", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != "user-1" {
		t.Errorf("expected sub=user-1, got %v", claims["sub"])
	}
	if claims["email"] != "user@example.com" {
		t.Errorf("expected email claim, got %v", claims["email"])
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		t.Fatalf("failed to read exp claim: %v", err)
	}
	ttl := time.Until(exp.Time)
	if ttl < 6*24*time.Hour || ttl > 8*24*time.Hour {
		t.Errorf("expected ~7 day TTL, got %v", ttl)
	}
}

func TestAuthService_LoginWithGoogle_NameDefault(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(ctx context.Context, idToken string) (googleauth.Claims, error) {
			return googleauth.Claims{Sub: "google-sub", Email: "user@example.com"}, nil
		},
	}
	users := &mockUserRepo{
		upsertFunc: func(ctx context.Context, email, name string) (model.User, error) {
			if name != "User" {
				t.Errorf("expected default name %q, got %q", "User", name)
			}
			return model.User{ID: "user-1", Email: email, Name: name}, nil
		},
	}

	svc := service.NewAuthService(verifier, users, authSecret, time.Hour)

	if _, err := svc.LoginWithGoogle(context.Background(), "valid-credential"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuthService_LoginWithGoogle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		verifier   *mockVerifier
		users      *mockUserRepo
		wantErr    error
	}{
		{
			name:       "empty credential",
			credential: "",
			wantErr:    service.ErrInvalidInput,
		},
		{
			name:       "verifier rejects token",
			credential: "bad-credential",
			verifier: &mockVerifier{
				verifyFunc: func(ctx context.Context, idToken string) (googleauth.Claims, error) {
					return googleauth.Claims{}, errors.New("token is expired")
				},
			},
			wantErr: service.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewAuthService(tt.verifier, tt.users, authSecret, time.Hour)

			_, err := svc.LoginWithGoogle(context.Background(), tt.credential)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthService_LoginWithGoogle_UpsertFailure(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(ctx context.Context, idToken string) (googleauth.Claims, error) {
			return googleauth.Claims{Sub: "google-sub", Email: "user@example.com", Name: "Test User"}, nil
		},
	}
	users := &mockUserRepo{
		upsertFunc: func(ctx context.Context, email, name string) (model.User, error) {
			return model.User{}, errors.New("connection refused")
		},
	}

	svc := service.NewAuthService(verifier, users, authSecret, time.Hour)

	if _, err := svc.LoginWithGoogle(context.Background(), "valid-credential"); err == nil {
		t.Fatal("expected error from user upsert, got nil")
	}
}
