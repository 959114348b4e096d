package common

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("resource conflict") // e.g., email already registered
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOwner       = errors.New("post owner does not exist")
	ErrNotImplemented     = errors.New("not implemented")
)

// PostgreSQL error codes the repositories translate.
const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidOwner) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrNotImplemented) {
		return http.StatusNotImplemented
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case PgUniqueViolation:
			return http.StatusConflict
		case PgForeignKeyViolation:
			return http.StatusUnprocessableEntity
		}
	}

	return http.StatusInternalServerError
}

// PublicError carries a message that is safe to show to API callers while
// still matching its sentinel through errors.Is.
type PublicError struct {
	Kind    error
	Message string
}

func (e *PublicError) Error() string { return e.Message }

func (e *PublicError) Unwrap() error { return e.Kind }

// NewPublicError wraps kind with a caller-visible message.
func NewPublicError(kind error, message string) error {
	return &PublicError{Kind: kind, Message: message}
}

const internalMessage = "Internal server error"

// PublicMessage returns the text a client may see for err. Anything that is
// not a known domain error collapses to a generic message.
func PublicMessage(err error) string {
	var pub *PublicError
	if errors.As(err, &pub) {
		return pub.Message
	}
	switch {
	case errors.Is(err, ErrValidation):
		return "Invalid request"
	case errors.Is(err, ErrConflict):
		return "Resource already exists"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrInvalidOwner):
		return "User does not exist"
	case errors.Is(err, ErrNotFound):
		return "Not found"
	case errors.Is(err, ErrNotImplemented):
		return "Not implemented"
	}
	return internalMessage
}
