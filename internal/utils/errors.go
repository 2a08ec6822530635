package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

func (appErr *AppError) Unwrap() error {
	return appErr.Origin
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrInvalidInput = "INVALID_INPUT"

	// Account errors
	ErrDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Ledger and governance errors
	ErrInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrAlreadyVoted        = "ALREADY_VOTED"
	ErrVoteClosed          = "VOTE_CLOSED"

	// Actor communication errors
	ErrActorTimeout = "ACTOR_TIMEOUT"

	ErrDatabase = "database_error"
	ErrInternal = "INTERNAL_ERROR"
)

func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

func NewNotFoundError(entity string, id string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", entity, id),
	}
}

func NewDuplicateEmailError(email string) *AppError {
	return &AppError{
		Code:    ErrDuplicateEmail,
		Message: "Email already exists: " + email,
	}
}

func NewInsufficientBalanceError(required int, actual int) *AppError {
	return &AppError{
		Code:    ErrInsufficientBalance,
		Message: fmt.Sprintf("Insufficient points. Required: %d, Actual: %d", required, actual),
	}
}

func NewAlreadyVotedError(voteID string, userID string) *AppError {
	return &AppError{
		Code:    ErrAlreadyVoted,
		Message: fmt.Sprintf("User %s already voted on %s", userID, voteID),
	}
}

func NewInvalidInputError(message string) *AppError {
	return &AppError{
		Code:    ErrInvalidInput,
		Message: message,
	}
}

func NewDatabaseError(message string, originalErr error) *AppError {
	return &AppError{
		Code:    ErrDatabase,
		Message: message,
		Origin:  originalErr,
	}
}

func NewActorTimeoutError(actorName string) *AppError {
	return &AppError{
		Code:    ErrActorTimeout,
		Message: "Actor communication timeout: " + actorName,
	}
}

// IsErrorCode reports whether err, or anything it wraps, is an AppError with code.
func IsErrorCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ErrorCode returns the AppError code carried by err, or "" if there is none.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrInvalidCredentials:
		return http.StatusUnauthorized
	case ErrDuplicateEmail, ErrAlreadyVoted, ErrVoteClosed:
		return http.StatusConflict
	case ErrInsufficientBalance:
		return http.StatusUnprocessableEntity
	case ErrActorTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
