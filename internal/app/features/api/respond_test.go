package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/homesync/homesync/internal/app/system/apperr"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code apperr.Code
		want int
	}{
		{apperr.CodeValidation, http.StatusBadRequest},
		{apperr.CodeSelfAdd, http.StatusBadRequest},
		{apperr.CodeNotFound, http.StatusNotFound},
		{apperr.CodeAccessDenied, http.StatusForbidden},
		{apperr.CodeAlreadyMember, http.StatusConflict},
		{apperr.CodeInvariantViolation, http.StatusConflict},
		{apperr.CodeConcurrencyExhausted, http.StatusServiceUnavailable},
		{apperr.CodeCodeExhaustion, http.StatusInternalServerError},
		{apperr.CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%s): got %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, http.StatusCreated, map[string]string{"id": "g1"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q", ct)
	}
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if !env.Success || env.Error != "" || env.ErrorCode != "" {
		t.Errorf("envelope %+v", env)
	}
}

func TestFailErr(t *testing.T) {
	rec := httptest.NewRecorder()
	FailErr(rec, zap.NewNop(), apperr.AccessDenied("you are not a member of this group"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Success {
		t.Error("success true on failure")
	}
	if env.ErrorCode != string(apperr.CodeAccessDenied) {
		t.Errorf("errorCode %q", env.ErrorCode)
	}
	if env.Error != "you are not a member of this group" {
		t.Errorf("error %q", env.Error)
	}
}

// Internal faults must not leak their cause to the client.
func TestFailErrHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	FailErr(rec, zap.NewNop(), apperr.Internal("storage error", errors.New("mongo: connection refused at 10.0.0.5")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Error == "" {
		t.Error("error message missing")
	}
	for _, leak := range []string{"mongo", "10.0.0.5", "connection refused"} {
		if strings.Contains(env.Error, leak) {
			t.Errorf("response leaked %q: %q", leak, env.Error)
		}
	}
}
