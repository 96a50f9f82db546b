package apperror

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

const (
	// Authentication errors (1xxx)
	ErrCodeInvalidCredentials ErrorCode = "AUTH_1001"
	ErrCodeWrongAccountKind   ErrorCode = "AUTH_1002"
	ErrCodeInvalidToken       ErrorCode = "AUTH_1003"
	ErrCodeDuplicateEmail     ErrorCode = "AUTH_1004"
	ErrCodeTooManyAttempts    ErrorCode = "AUTH_1005"

	// Validation errors (2xxx)
	ErrCodeValidation ErrorCode = "VALID_2001"

	// Storage errors (5xxx)
	ErrCodeNotFound           ErrorCode = "STORE_5001"
	ErrCodeStorageUnavailable ErrorCode = "STORE_5002"

	// Server errors (6xxx)
	ErrCodeConfiguration ErrorCode = "SERVER_6001"
	ErrCodeInternal      ErrorCode = "SERVER_6002"
)

// AppError is a classified, caller-visible outcome. Everything except
// StorageUnavailable and Internal is a recoverable 4xx-style failure.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Details: details, Cause: cause}
}

// CodeOf extracts the error code, or ErrCodeInternal for unclassified errors.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// InvalidCredentials is reported identically whether the email is unknown or
// the password mismatched, so callers cannot enumerate accounts.
func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, "invalid email or password", "", nil)
}

func WrongAccountKind(expected string) *AppError {
	return New(ErrCodeWrongAccountKind, "account kind not allowed for this endpoint",
		fmt.Sprintf("expected kind: %s", expected), nil)
}

func InvalidToken(details string, cause error) *AppError {
	return New(ErrCodeInvalidToken, "invalid or expired token", details, cause)
}

func DuplicateEmail(email string) *AppError {
	return New(ErrCodeDuplicateEmail, "email already registered", email, nil)
}

func TooManyAttempts() *AppError {
	return New(ErrCodeTooManyAttempts, "too many attempts, try again later", "", nil)
}

func Validation(details string) *AppError {
	return New(ErrCodeValidation, "invalid request", details, nil)
}

func NotFound(what string) *AppError {
	return New(ErrCodeNotFound, "not found", what, nil)
}

func StorageUnavailable(cause error) *AppError {
	return New(ErrCodeStorageUnavailable, "storage unavailable", "", cause)
}

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "internal error", "", cause)
}
