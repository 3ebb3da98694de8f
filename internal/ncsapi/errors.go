package ncsapi

import "errors"

// Domain errors. All of them are recovered at the request boundary and
// translated to a user-facing message; none should escape as a fault.
var (
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrAlreadyCompleted    = errors.New("already_completed")
	ErrValidation          = errors.New("validation_error")
	ErrNotFound            = errors.New("not_found")
)
