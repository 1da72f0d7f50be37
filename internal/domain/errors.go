// File: internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrKindNotFound      ErrorKind = "NOT_FOUND"
	ErrKindConflict      ErrorKind = "CONFLICT"
	ErrKindQuotaExceeded ErrorKind = "QUOTA_EXCEEDED"
	ErrKindValidation    ErrorKind = "VALIDATION"
	ErrKindInternal      ErrorKind = "INTERNAL"
)

// Error is the error type surfaced by the sync engine and the CRUD services.
type Error struct {
	Kind      ErrorKind
	Operation string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error in %s: %s (caused by: %v)", e.Kind, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Kind, e.Operation, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewNotFoundError(operation, msg string) *Error {
	return &Error{Kind: ErrKindNotFound, Operation: operation, Message: msg}
}

func NewConflictError(operation, msg string, cause error) *Error {
	return &Error{Kind: ErrKindConflict, Operation: operation, Message: msg, Cause: cause}
}

func NewQuotaExceededError(operation string, limit int64) *Error {
	return &Error{
		Kind:      ErrKindQuotaExceeded,
		Operation: operation,
		Message:   fmt.Sprintf("maximum %d chats per user", limit),
	}
}

func NewValidationError(operation, msg string) *Error {
	return &Error{Kind: ErrKindValidation, Operation: operation, Message: msg}
}

func NewInternalError(operation, msg string, cause error) *Error {
	return &Error{Kind: ErrKindInternal, Operation: operation, Message: msg, Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or ErrKindInternal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrKindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

// MessageOf returns the human-readable message of err without the kind prefix.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
