// Package common defines shared constants, sentinel errors and the error-kind
// taxonomy used across promptkeeper layers. Callers should use errors.Is and
// KindOf to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Token errors (malformed, bad signature, expired).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Kind classifies a failure independently of any transport.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

// Reason narrows a Kind when the boundary layer needs to tell two failures of
// the same kind apart (e.g. missing fields vs. mismatched confirmation).
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonMissingFields    Reason = "missing_fields"
	ReasonPasswordMismatch Reason = "password_mismatch"
	ReasonInvalidField     Reason = "invalid_field"
	ReasonUpdateFailed     Reason = "update_failed"
)

// Error is a classified failure carrying a caller-safe message. Err holds the
// underlying cause for logs and is never shown to callers.
type Error struct {
	Kind   Kind
	Reason Reason
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError returns a classified error without an underlying cause.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// WrapError returns a classified error that keeps cause for logging.
func WrapError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Invalid returns a KindValidation error with the given reason.
func Invalid(reason Reason, msg string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Msg: msg}
}

// KindOf reports the Kind of err. Anything unclassified is KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ReasonOf reports the Reason of err, or ReasonNone.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonNone
}

// MessageOf returns the caller-safe message of err. Unclassified errors get
// fallback so raw causes never leak.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return fallback
}
