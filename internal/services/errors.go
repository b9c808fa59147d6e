// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so callers can pick a response
// instead of string-matching error text. Three policies apply across the
// services: catalog and cart reads swallow failures and return defaults,
// post-commit delivery failures are recorded and skipped, and validation or
// notification-record failures are raised to the caller.
type ErrorKind string

const (
	KindNotFound            ErrorKind = "not_found"
	KindRemoteUnavailable   ErrorKind = "remote_unavailable"
	KindValidationFailed    ErrorKind = "validation_failed"
	KindPartialWriteFailure ErrorKind = "partial_write_failure"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err or anything it wraps is a service Error of the
// given kind.
func IsKind(err error, kind ErrorKind) bool {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind == kind
	}
	return false
}

// ErrEmptyCart is returned by checkout when the cart slot holds no items.
var ErrEmptyCart = NewError(KindValidationFailed, "cart is empty")
