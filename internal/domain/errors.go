package domain

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable failure class carried to clients.
type Kind string

const (
	KindMissingCredential  Kind = "AUTH_MISSING_CREDENTIAL"
	KindInvalidCredential  Kind = "AUTH_INVALID_CREDENTIAL"
	KindSubjectNotFound    Kind = "AUTH_SUBJECT_NOT_FOUND"
	KindInvalidCredentials Kind = "AUTH_INVALID_CREDENTIALS"
	KindValidation         Kind = "VALIDATION"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindRateLimited        Kind = "RATE_LIMITED"
	KindDependency         Kind = "DEPENDENCY"
)

// IsAuthRejection reports whether k rejects the caller's credential.
func (k Kind) IsAuthRejection() bool {
	switch k {
	case KindMissingCredential, KindInvalidCredential, KindSubjectNotFound:
		return true
	default:
		return false
	}
}

// Error is a classified failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Details: e.Details, cause: err}
}

var (
	ErrMissingCredential  = &Error{Kind: KindMissingCredential, Message: "credential not found"}
	ErrInvalidCredential  = &Error{Kind: KindInvalidCredential, Message: "credential is invalid or expired"}
	ErrSubjectNotFound    = &Error{Kind: KindSubjectNotFound, Message: "credential subject does not exist"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid identifier or password"}
	ErrValidation         = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "conflict"}
	ErrRateLimited        = &Error{Kind: KindRateLimited, Message: "too many attempts, try again later"}
	ErrDependency         = &Error{Kind: KindDependency, Message: "dependency unavailable"}
)

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Dependency wraps a store, blob or notifier failure.
func Dependency(err error, msg string) *Error {
	return &Error{Kind: KindDependency, Message: msg, cause: err}
}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// KindOf classifies err. Unclassified errors are dependency failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDependency
}
