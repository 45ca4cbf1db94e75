package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 409
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Stable machine codes. Callers branch on these with Is.
const (
	CodeMissingField       = "missing_field"
	CodeInvalidField       = "invalid_field"
	CodeInvalidJSON        = "invalid_json"
	CodeInvalidCredentials = "invalid_credentials"
	CodeAccountNotFound    = "account_not_found"
	CodeEmailTaken         = "email_taken"
	CodeConflict           = "conflict"
	CodeStoreUnavailable   = "store_unavailable"
	CodeHashFailed         = "hash_failed"
	CodeInternal           = "internal_error"
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe summary for clients (avoid leaking sensitive details)
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// KindOf returns the kind of a domain error, or KindInternal for anything else.
func KindOf(err error) ErrKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, CodeMissingField, "missing required field"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, CodeInvalidField, "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, CodeInvalidJSON, "invalid JSON body", cause)
}

// ----------------------
// Auth errors (401)
// ----------------------

// IMPORTANT: unknown email and wrong password must both map here (no account enumeration).
func ErrInvalidCredentials() *Error {
	return New(KindAuth, CodeInvalidCredentials, "invalid email or password")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrAccountNotFound() *Error {
	return New(KindNotFound, CodeAccountNotFound, "account not found")
}

// ----------------------
// Conflict (409)
// ----------------------

// ErrEmailTaken is the single user-facing error for an email collision,
// whether the pre-check or the storage constraint caught it.
func ErrEmailTaken(email string) *Error {
	return WithMeta(New(KindConflict, CodeEmailTaken, "this email cannot be used"), map[string]string{
		"email": email,
	})
}

// ErrConflict is returned by stores when a uniqueness constraint rejects a write.
func ErrConflict(field string, cause error) *Error {
	return WithMeta(Wrap(KindConflict, CodeConflict, "uniqueness constraint violated", cause), map[string]string{
		"field": field,
	})
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrStoreUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, CodeStoreUnavailable, "account store unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, CodeHashFailed, "password hashing failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, CodeInternal, "internal error", cause)
}
