package service

import (
	"fmt"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/validation"
)

// Kind classifies a service error
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindUnauthorized
	KindInvalid
	KindConflict
)

// Error is a failure the client can act on. Anything else returned by the
// services is an opaque storage failure.
type Error struct {
	Kind    Kind
	Message string
	Fields  []validation.ValidationError
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind when target carries no message,
// so errors.Is(err, ErrNotFound) works for every not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrInvalid      = &Error{Kind: KindInvalid}
	ErrConflict     = &Error{Kind: KindConflict}
)

// NotAuthorizedMessage is returned whenever a principal lacks authorship or role
const NotAuthorizedMessage = "You are not authorized to perform this operation!"

func notFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func dishNotFound(id string) *Error {
	return notFound("Dish %s not found", id)
}

func commentNotFound(id string) *Error {
	return notFound("Comment %s not found", id)
}

func forbidden() *Error {
	return &Error{Kind: KindForbidden, Message: NotAuthorizedMessage}
}

func unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func invalid(fields []validation.ValidationError) *Error {
	return &Error{Kind: KindInvalid, Message: "validation failed", Fields: fields}
}
