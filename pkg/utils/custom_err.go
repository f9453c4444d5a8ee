package utils

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies pipeline failures. The kind decides the HTTP status
// in controllers; the message text for missing references, sold-out tiers
// and the missing-payment-method check is part of the observable contract.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "NotFound"
	KindUnauthorized     ErrorKind = "Unauthorized"
	KindValidationFailed ErrorKind = "ValidationFailed"
	KindCapacityExceeded ErrorKind = "CapacityExceeded"
	KindPaymentError     ErrorKind = "PaymentError"
	KindInternal         ErrorKind = "Internal"
)

type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Is matches by kind (and message when the target carries one) so callers
// can test taxonomy membership with errors.Is against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Kind sentinels for errors.Is checks.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized}
	ErrValidationFailed = &Error{Kind: KindValidationFailed}
	ErrCapacityExceeded = &Error{Kind: KindCapacityExceeded}
	ErrPaymentError     = &Error{Kind: KindPaymentError}
	ErrDatabaseError    = &Error{Kind: KindInternal, Message: "database error"}
)

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthorizedf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func ValidationFailed(message string) *Error {
	return &Error{Kind: KindValidationFailed, Message: message}
}

func CapacityExceededf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindCapacityExceeded, Message: fmt.Sprintf(format, args...)}
}

func PaymentFailed(cause error) *Error {
	return &Error{Kind: KindPaymentError, Message: cause.Error(), cause: cause}
}

// ErrorList carries the distinct validation/authorization problems detected
// before any mutation, in the order they were found.
type ErrorList struct {
	Errors []*Error `json:"errors"`
}

func (l *ErrorList) Error() string {
	msgs := make([]string, 0, len(l.Errors))
	for _, e := range l.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Add appends an error record, skipping exact duplicates.
func (l *ErrorList) Add(err *Error) {
	for _, existing := range l.Errors {
		if existing.Kind == err.Kind && existing.Message == err.Message {
			return
		}
	}
	l.Errors = append(l.Errors, err)
}

func (l *ErrorList) HasErrors() bool { return len(l.Errors) > 0 }

// AsErrorList normalizes any error into the ordered record list shape the
// API returns. Plain errors become a single Internal record.
func AsErrorList(err error) *ErrorList {
	var list *ErrorList
	if errors.As(err, &list) {
		return list
	}
	var single *Error
	if errors.As(err, &single) {
		return &ErrorList{Errors: []*Error{single}}
	}
	return &ErrorList{Errors: []*Error{{Kind: KindInternal, Message: "internal error"}}}
}
