package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jaekwang-park/todotodo-api/internal/googleauth"
	"github.com/jaekwang-park/todotodo-api/internal/model"
	"github.com/jaekwang-park/todotodo-api/internal/repository"
)

// TokenVerifier verifies a Google ID token and returns its identity claims.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (googleauth.Claims, error)
}

type AuthService struct {
	verifier TokenVerifier
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(verifier TokenVerifier, users repository.UserRepository, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		verifier: verifier,
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

type LoginOutput struct {
	User      model.User
	Token     string
	ExpiresAt time.Time
}

// LoginWithGoogle verifies the Google ID token, upserts the user record
// keyed by email, and issues a session JWT for the cookie.
func (s *AuthService) LoginWithGoogle(ctx context.Context, credential string) (LoginOutput, error) {
	if credential == "" {
		return LoginOutput{}, fmt.Errorf("%w: credential is required", ErrInvalidInput)
	}

	claims, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return LoginOutput{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	name := claims.Name
	if name == "" {
		name = "User"
	}

	user, err := s.users.Upsert(ctx, claims.Email, name)
	if err != nil {
		return LoginOutput{}, fmt.Errorf("failed to upsert user: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.Name,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return LoginOutput{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return LoginOutput{User: user, Token: signed, ExpiresAt: expiresAt}, nil
}
