package authtoken

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-secret-0123456789ABCDEF"

func mintToken(t *testing.T, secret, subject, issuer string, expires time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	if issuer != "" {
		claims.Issuer = issuer
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	if _, err := NewVerifier("", ""); err == nil {
		t.Error("empty secret accepted")
	}
	if _, err := NewVerifier("   ", ""); err == nil {
		t.Error("blank secret accepted")
	}
	if _, err := NewVerifier(testSecret, ""); err != nil {
		t.Errorf("valid secret rejected: %v", err)
	}
}

func TestUserID(t *testing.T) {
	v, err := NewVerifier(testSecret, "")
	if err != nil {
		t.Fatal(err)
	}

	tok := mintToken(t, testSecret, "user-1", "", time.Now().Add(time.Hour))
	got, err := v.UserID(tok)
	if err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if got != "user-1" {
		t.Errorf("subject: got %q, want user-1", got)
	}
}

func TestUserID_Rejections(t *testing.T) {
	v, err := NewVerifier(testSecret, "homesync-auth")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", mintToken(t, "some-other-secret-value-here", "user-1", "homesync-auth", time.Now().Add(time.Hour))},
		{"expired", mintToken(t, testSecret, "user-1", "homesync-auth", time.Now().Add(-time.Hour))},
		{"missing subject", mintToken(t, testSecret, "", "homesync-auth", time.Now().Add(time.Hour))},
		{"issuer mismatch", mintToken(t, testSecret, "user-1", "someone-else", time.Now().Add(time.Hour))},
		{"garbage", "not.a.token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.UserID(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("got %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestUserID_RejectsMissingExpiry(t *testing.T) {
	v, err := NewVerifier(testSecret, "")
	if err != nil {
		t.Fatal(err)
	}

	claims := jwt.RegisteredClaims{Subject: "user-1"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.UserID(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token without exp accepted: %v", err)
	}
}

func TestUserID_RejectsUnexpectedAlgorithm(t *testing.T) {
	v, err := NewVerifier(testSecret, "")
	if err != nil {
		t.Fatal(err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	// alg=none tokens must never pass.
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.UserID(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("unsigned token accepted: %v", err)
	}
}

func TestFromRequest(t *testing.T) {
	v, err := NewVerifier(testSecret, "")
	if err != nil {
		t.Fatal(err)
	}
	valid := mintToken(t, testSecret, "user-1", "", time.Now().Add(time.Hour))

	tests := []struct {
		name    string
		header  string
		wantID  string
		wantErr error
	}{
		{"ok", "Bearer " + valid, "user-1", nil},
		{"lowercase scheme", "bearer " + valid, "user-1", nil},
		{"no header", "", "", ErrMissingToken},
		{"wrong scheme", "Basic abc123", "", ErrMissingToken},
		{"scheme only", "Bearer", "", ErrMissingToken},
		{"bad token", "Bearer nope", "", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/groups", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			id, err := v.FromRequest(r)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tt.wantID {
				t.Errorf("got %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	r := httptest.NewRequest("GET", "/groups", nil)
	if got := UserID(r); got != "" {
		t.Errorf("unauthenticated request: got %q, want empty", got)
	}
	r = WithTestUser(r, "user-9")
	if got := UserID(r); got != "user-9" {
		t.Errorf("got %q, want user-9", got)
	}
}
