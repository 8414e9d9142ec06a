package domain

import (
	"errors"
	"fmt"
)

// NetworkFailedMessage is the message carried by connectivity failures.
const NetworkFailedMessage = "Network request failed"

// ErrorKind classifies a failure so callers can branch on it.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindValidation is a client-side input error caught before any network call.
	KindValidation
	// KindApplication is a non-2xx response from the backend.
	KindApplication
	// KindConnectivity is a transport failure (DNS, refused connection, timeout).
	KindConnectivity
	// KindNotFound is an expected missing resource (recipe or meal kit not generated yet).
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindApplication:
		return "application"
	case KindConnectivity:
		return "connectivity"
	case KindNotFound:
		return "not_found"
	default:
		return "none"
	}
}

// Error is a tagged failure.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is matches the kind sentinels (ErrValidation, ErrConnectivity, ...).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" && t.Status == 0 {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Status == e.Status && t.Message == e.Message
}

// Kind sentinels for use with errors.Is.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrApplication  = &Error{Kind: KindApplication}
	ErrConnectivity = &Error{Kind: KindConnectivity}
	ErrNotFound     = &Error{Kind: KindNotFound}
)

// Validationf builds a validation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or KindNone when err is not tagged.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
