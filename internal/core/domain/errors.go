package domain

import (
	"errors"
	"fmt"
)

// Store and codec conditions. Repositories wrap these so services can
// classify a failure without knowing the driver.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate record")
	ErrInvalidToken   = errors.New("invalid token")
)

// Kind classifies a failure for the client. The HTTP layer owns the
// mapping from Kind to status code.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the structured failure raised by any pipeline stage or handler.
// Message is safe to show to clients; Detail is for operators only.
type Error struct {
	Kind    Kind
	Message string
	Detail  error
}

func (e *Error) Error() string {
	if e.Detail == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Detail)
}

func (e *Error) Unwrap() error { return e.Detail }

func BadRequest(msg string) *Error { return &Error{Kind: KindBadRequest, Message: msg} }

func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }

func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// Internal wraps an unexpected fault. detail is logged, never rendered.
func Internal(msg string, detail error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Detail: detail}
}

// AsError reports whether err carries a *Error anywhere in its chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
