package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the UI layer. The user-facing contract
// is message plus kind; the kind decides placement (inline banner,
// login redirect) while the message is shown verbatim.
type Kind int

const (
	KindNetwork Kind = iota
	KindValidation
	KindAuth
	KindSessionExpired
	KindNotFound
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindSessionExpired:
		return "session_expired"
	case KindNotFound:
		return "not_found"
	default:
		return "network"
	}
}

// Error is a classified, human-readable error
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, may be nil
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a plain message
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an underlying error, keeping it on the chain
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation creates a client-side validation error
func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// KindOf extracts the kind from an error chain, defaulting to network
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNetwork
}

// IsKind reports whether the error chain carries the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
