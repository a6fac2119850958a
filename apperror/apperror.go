// Package apperror carries the error taxonomy shared by services and the
// HTTP boundary. Services return *Error values; controllers translate them
// into status codes with HTTPStatus.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInfrastructure Kind = iota
	KindNotFound
	KindBadRequest
	KindUnauthenticated
	KindForbidden
	KindConflict
	KindInvalidToken
	KindInvalidOrExpiredToken
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInvalidToken:
		return "invalid_token"
	case KindInvalidOrExpiredToken:
		return "invalid_or_expired_token"
	default:
		return "infrastructure"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, apperror.ErrNotFound)
// works regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound              = &Error{Kind: KindNotFound, Message: "not found"}
	ErrBadRequest            = &Error{Kind: KindBadRequest, Message: "bad request"}
	ErrUnauthenticated       = &Error{Kind: KindUnauthenticated, Message: "unauthenticated"}
	ErrForbidden             = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrConflict              = &Error{Kind: KindConflict, Message: "conflict"}
	ErrInfrastructure        = &Error{Kind: KindInfrastructure, Message: "internal error"}
	ErrInvalidToken          = &Error{Kind: KindInvalidToken, Message: "invalid token"}
	ErrInvalidOrExpiredToken = &Error{Kind: KindInvalidOrExpiredToken, Message: "invalid or expired token"}
)

func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func BadRequest(msg string) *Error      { return &Error{Kind: KindBadRequest, Message: msg} }
func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func Forbidden(msg string) *Error       { return &Error{Kind: KindForbidden, Message: msg} }
func Conflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }
func InvalidToken(msg string) *Error    { return &Error{Kind: KindInvalidToken, Message: msg} }

func InvalidOrExpiredToken(msg string) *Error {
	return &Error{Kind: KindInvalidOrExpiredToken, Message: msg}
}

func Infrastructure(msg string, err error) *Error {
	return &Error{Kind: KindInfrastructure, Message: msg, Err: err}
}

// KindOf reports the kind of err, defaulting to KindInfrastructure for
// errors that did not originate here.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInfrastructure
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest, KindInvalidToken, KindInvalidOrExpiredToken:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to return to a client. Infrastructure
// details never leave the process.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInfrastructure {
		return e.Message
	}
	return "internal server error"
}
