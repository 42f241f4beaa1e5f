package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidAmount indicates a monetary amount outside the allowed range
// (negative opening balance, non-positive transfer amount, etc.).
var ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrValidation)

// ErrInvalidState indicates an operation attempted against an entity whose
// current lifecycle state does not permit it (e.g. opening an already-open drawer).
var ErrInvalidState = fmt.Errorf("%w: invalid state", ErrValidation)

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is authenticated but lacks permission for the action.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyResolved indicates a transfer request has already reached a terminal
// state. This is terminal information, not a retryable condition; callers should
// re-fetch the request to observe the outcome.
var ErrAlreadyResolved = errors.New("transfer request already resolved")

// ErrInsufficientFunds indicates the source drawer balance does not cover the
// requested amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrConflict indicates a transient storage-level conflict (serialization failure,
// deadlock). The whole operation is safe to retry from scratch.
var ErrConflict = errors.New("storage conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a message and wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
