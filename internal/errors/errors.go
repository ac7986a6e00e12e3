package errors

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kinds. Every error that reaches the transport boundary is one of these or
// is treated as internal.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation error")
	ErrTooManyRequests    = errors.New("too many requests")
)

// Reasons refine a kind without changing its status code.
var (
	ErrOtpNotFound         = errors.New("otp not found")
	ErrOtpAlreadyUsed      = errors.New("otp already used")
	ErrOtpExpired          = errors.New("otp expired")
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenInvalid        = errors.New("token invalid")
	ErrTokenWrongType      = errors.New("token has wrong type")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Error is a classified error carrying the message shown to the client.
type Error struct {
	Kind    error
	Reason  error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Reason
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WithReason(kind, reason error, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message}
}

func NotFound(entity string) *Error {
	return New(ErrNotFound, entity+" not found")
}

func Validation(message string) *Error {
	return New(ErrValidation, message)
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAccountLocked), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if StatusCode(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

// FromDB classifies a persistence error for entity. Unknown errors are
// returned unchanged and stay internal.
func FromDB(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(entity)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &Error{Kind: ErrConflict, Reason: err, Message: entity + " already exists"}
		case pgForeignKeyViolation:
			return &Error{Kind: ErrValidation, Reason: err, Message: "referenced record does not exist"}
		}
	}
	return err
}
