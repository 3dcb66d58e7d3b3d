package googleauth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultJWKSURL is Google's published signing-key set for ID tokens.
const DefaultJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// Google issues ID tokens under both forms of the issuer.
var acceptedIssuers = []string{
	"accounts.google.com",
	"https://accounts.google.com",
}

// Claims are the identity fields extracted from a verified Google ID token.
type Claims struct {
	Sub   string
	Email string
	Name  string
}

// Verifier validates Google ID tokens presented by the sign-in flow.
type Verifier struct {
	clientID string
	jwks     *JWKSClient
}

func NewVerifier(clientID string, jwks *JWKSClient) *Verifier {
	return &Verifier{clientID: clientID, jwks: jwks}
}

// Verify checks the token signature against Google's JWKS, the audience
// against the configured OAuth client id, and the issuer, then returns the
// identity claims. The email claim is required; name may be empty.
func (v *Verifier) Verify(ctx context.Context, idToken string) (Claims, error) {
	token, err := jwt.Parse(idToken, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("kid header not found")
		}

		return v.jwks.GetKey(kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("invalid google id token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("invalid token claims")
	}

	issuer, err := claims.GetIssuer()
	if err != nil {
		return Claims{}, fmt.Errorf("issuer claim not found: %w", err)
	}
	if !issuerAccepted(issuer) {
		return Claims{}, fmt.Errorf("unexpected issuer %q", issuer)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Claims{}, fmt.Errorf("sub claim not found")
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return Claims{}, fmt.Errorf("email claim not found")
	}

	name, _ := claims["name"].(string)

	return Claims{Sub: sub, Email: email, Name: name}, nil
}

func issuerAccepted(issuer string) bool {
	for _, iss := range acceptedIssuers {
		if issuer == iss {
			return true
		}
	}
	return false
}
