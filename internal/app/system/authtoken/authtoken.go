// Package authtoken verifies the signed bearer tokens minted by the
// upstream auth service and exposes the authenticated user ID to
// handlers via the request context.
//
// Tokens are verified against the shared signing secret before any claim
// is trusted; an unverified payload decode is never performed.
package authtoken

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

type ctxKey struct{}

// Verifier validates bearer tokens and resolves the embedded user ID.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier builds a Verifier for HS256 tokens signed with secret.
// issuer, when non-empty, must match the token's iss claim.
func NewVerifier(secret, issuer string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth token secret must be set")
	}
	return &Verifier{secret: []byte(secret), issuer: issuer}, nil
}

// UserID verifies tokenString and returns the subject claim.
func (v *Verifier) UserID(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// FromRequest extracts and verifies the Authorization bearer token.
func (v *Verifier) FromRequest(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMissingToken
	}
	return v.UserID(strings.TrimSpace(parts[1]))
}

// WithUserID returns a context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the authenticated user ID from the request context, or
// "" when the request is unauthenticated.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

// WithTestUser injects a user ID into the request for handler tests,
// bypassing token verification.
func WithTestUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(WithUserID(r.Context(), userID))
}
