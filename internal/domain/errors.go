package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Error kinds. Every failure a service returns wraps exactly one of these,
// and the HTTP boundary only ever switches on the kind.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error is a named domain failure of a given kind. errors.Is matches both the
// Error value itself and its kind.
type Error struct {
	Kind    error
	Message string
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Error implements the error interface
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the kind to errors.Is.
func (e *Error) Unwrap() error { return e.Kind }

// StatusCode implements the HTTPError interface
func (e *Error) StatusCode() int { return StatusCode(e.Kind) }

// Named failures raised by services and repositories.
var (
	ErrPersonNotFound       = newError(ErrNotFound, "person not found")
	ErrPostNotFound         = newError(ErrNotFound, "post not found")
	ErrCommentNotFound      = newError(ErrNotFound, "comment not found")
	ErrLikeNotFound         = newError(ErrNotFound, "like not found")
	ErrConversationNotFound = newError(ErrNotFound, "conversation not found")
	ErrAspectNotFound       = newError(ErrNotFound, "aspect not found")

	ErrLikeExists        = newError(ErrValidation, "post already liked")
	ErrOwnReshare        = newError(ErrValidation, "cannot reshare own post")
	ErrReshareNotPublic  = newError(ErrValidation, "only public posts can be reshared")
	ErrAlreadyReshared   = newError(ErrValidation, "post already reshared")
	ErrReasonRequired    = newError(ErrValidation, "report reason is required")
	ErrAspectNameTaken   = newError(ErrValidation, "aspect name already taken")
	ErrRecipientNotFound = newError(ErrValidation, "recipient not found")
	ErrNotAContact       = newError(ErrValidation, "recipient is not a contact")

	ErrDuplicateReport = newError(ErrConflict, "item already reported")

	ErrDeleteNotAllowed = newError(ErrForbidden, "not allowed to delete")
	ErrPrivateScope     = newError(ErrForbidden, "private scope required")
)

// StatusCode maps an error to its HTTP status by kind. Unknown errors are 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
