package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLedgerNotFound      = errors.New("ledger not found")
	ErrAlreadyEnrolled     = errors.New("vendor already enrolled")
	ErrNotEnrolled         = errors.New("vendor not enrolled in pay later")
	ErrCreditLimitExceeded = errors.New("charge would exceed credit limit")
	ErrAccountBlocked      = errors.New("pay later account is blocked")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrValidation          = errors.New("validation failed")
	ErrVersionConflict     = errors.New("ledger was modified concurrently")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLedgerNotFound      = "LEDGER_NOT_FOUND"
	ErrCodeAlreadyEnrolled     = "ALREADY_ENROLLED"
	ErrCodeNotEnrolled         = "NOT_ENROLLED"
	ErrCodeCreditLimitExceeded = "CREDIT_LIMIT_EXCEEDED"
	ErrCodeAccountBlocked      = "ACCOUNT_BLOCKED"
	ErrCodeInvalidAmount       = "INVALID_AMOUNT"
	ErrCodeValidation          = "VALIDATION_FAILED"
	ErrCodeVersionConflict     = "VERSION_CONFLICT"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
	ErrCodeCacheError          = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapLedgerNotFound(vendorID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLedgerNotFound,
		fmt.Sprintf("No pay later ledger found for vendor %s", vendorID),
		ErrLedgerNotFound,
	)
}

func WrapAlreadyEnrolled(vendorID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadyEnrolled,
		fmt.Sprintf("Vendor %s is already enrolled in pay later", vendorID),
		ErrAlreadyEnrolled,
	)
}

func WrapNotEnrolled(vendorID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotEnrolled,
		fmt.Sprintf("Vendor %s is not enrolled in pay later", vendorID),
		ErrNotEnrolled,
	)
}

func WrapCreditLimitExceeded(requested, remaining string) *BusinessError {
	return NewBusinessError(
		ErrCodeCreditLimitExceeded,
		fmt.Sprintf("Charge of %s exceeds remaining credit %s", requested, remaining),
		ErrCreditLimitExceeded,
	)
}

func WrapAccountBlocked(vendorID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAccountBlocked,
		fmt.Sprintf("Pay later account for vendor %s is blocked due to overdue payment", vendorID),
		ErrAccountBlocked,
	)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Invalid amount: %s", amount),
		ErrInvalidAmount,
	)
}

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		message,
		ErrValidation,
	)
}

func WrapVersionConflict(vendorID string) *BusinessError {
	return NewBusinessError(
		ErrCodeVersionConflict,
		fmt.Sprintf("Ledger for vendor %s was modified by another operation", vendorID),
		ErrVersionConflict,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
