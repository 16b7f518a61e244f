// internal/app/features/api/respond.go

// Package api holds the JSON envelope and middleware shared by all
// feature handlers. Every response is {success, data?, error?, errorCode?}
// with the taxonomy codes from apperr; storage errors never leak.
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/homesync/homesync/internal/app/system/apperr"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// OK writes a success envelope.
func OK(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

// Fail writes a failure envelope with an explicit code and message.
func Fail(w http.ResponseWriter, status int, code apperr.Code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Success:   false,
		Error:     message,
		ErrorCode: string(code),
	})
}

// FailErr maps a service error onto status + envelope. Internal faults
// are logged with their cause and reported generically.
func FailErr(w http.ResponseWriter, log *zap.Logger, err error) {
	code := apperr.CodeOf(err)
	if code == apperr.CodeInternal && log != nil {
		log.Error("request failed", zap.Error(err))
	}
	Fail(w, statusFor(code), code, apperr.MessageOf(err))
}

// statusFor maps taxonomy codes to HTTP status.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeValidation, apperr.CodeSelfAdd:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeAccessDenied:
		return http.StatusForbidden
	case apperr.CodeAlreadyMember, apperr.CodeInvariantViolation:
		return http.StatusConflict
	case apperr.CodeConcurrencyExhausted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
