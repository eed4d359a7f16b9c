package workflow

import (
	"errors"
	"fmt"
)

// Kind classifies workflow failures; the HTTP layer maps each kind to a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAlreadyPaid
	KindInvalidSignature
	KindUpstream
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindInternal
}

func invalid(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

func internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

var (
	errAlreadyPaid      = &Error{Kind: KindAlreadyPaid, Message: "Payment has already been completed"}
	errInvalidSignature = &Error{Kind: KindInvalidSignature, Message: "Invalid signature"}
	errInvalidStatus    = &Error{Kind: KindValidation, Message: "Invalid status value"}
)
