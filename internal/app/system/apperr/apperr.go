// Package apperr defines the error taxonomy shared by the membership
// service and the API layer.
//
// Every expected failure is an *Error carrying a stable machine-readable
// code plus a human-readable message. Handlers map codes to HTTP status;
// raw storage errors are never surfaced to callers.
package apperr

import "errors"

// Code is a stable machine-readable error code.
type Code string

const (
	CodeValidation           Code = "validation_error"
	CodeNotFound             Code = "not_found"
	CodeAccessDenied         Code = "access_denied"
	CodeAlreadyMember        Code = "already_member"
	CodeSelfAdd              Code = "self_add"
	CodeInvariantViolation   Code = "invariant_violation"
	CodeConcurrencyExhausted Code = "concurrency_exhausted"
	CodeCodeExhaustion       Code = "code_exhaustion"
	CodeInternal             Code = "internal_error"
)

// Error is a typed application error.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// Is matches two *Error values by code, so sentinel-style comparisons
// like errors.Is(err, apperr.NotFound("")) work regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func newErr(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Validation reports bad input shape or length (caller's fault).
func Validation(msg string) *Error { return newErr(CodeValidation, msg) }

// NotFound reports an absent group, code, or member.
func NotFound(msg string) *Error { return newErr(CodeNotFound, msg) }

// AccessDenied reports that the actor lacks the required role or membership.
func AccessDenied(msg string) *Error { return newErr(CodeAccessDenied, msg) }

// AlreadyMember reports that the target is already in the group.
func AlreadyMember(msg string) *Error { return newErr(CodeAlreadyMember, msg) }

// SelfAdd reports an attempt to add oneself by share code.
func SelfAdd(msg string) *Error { return newErr(CodeSelfAdd, msg) }

// InvariantViolation reports an operation that would break an always-true
// invariant. The operation is rejected, never silently coerced.
func InvariantViolation(msg string) *Error { return newErr(CodeInvariantViolation, msg) }

// ConcurrencyExhausted reports that the compare-and-swap retry budget ran
// out under contention. Safe for the caller to retry.
func ConcurrencyExhausted(msg string) *Error { return newErr(CodeConcurrencyExhausted, msg) }

// CodeExhaustion reports that share-code generation failed even after the
// fallback attempt. Fatal; should never occur in practice.
func CodeExhaustion(msg string) *Error { return newErr(CodeCodeExhaustion, msg) }

// Internal wraps an unexpected storage or infrastructure failure.
func Internal(msg string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: msg, cause: cause}
}

// CodeOf returns the code of err if it is an *Error, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the message of err if it is an *Error, or a generic
// message that does not leak internal details.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != CodeInternal {
		return e.Message
	}
	return "An internal error occurred."
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
