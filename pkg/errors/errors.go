package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrLoanNotFound       = errors.New("loan not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidDateRange   = errors.New("due date is before start date")
	ErrInvalidStatus      = errors.New("invalid loan status")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("not authenticated")
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
	ErrCodeLoanNotFound       = "LOAN_NOT_FOUND"
	ErrCodeClientNotFound     = "CLIENT_NOT_FOUND"
	ErrCodePaymentNotFound    = "PAYMENT_NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidDateRange   = "INVALID_DATE_RANGE"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeCacheError         = "CACHE_ERROR"
)

var statusByCode = map[string]int{
	ErrCodeLoanNotFound:       http.StatusNotFound,
	ErrCodeClientNotFound:     http.StatusNotFound,
	ErrCodePaymentNotFound:    http.StatusNotFound,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeInvalidDateRange:   http.StatusBadRequest,
	ErrCodeInvalidStatus:      http.StatusBadRequest,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
}

// HTTPStatus maps an error to the status code the API answers with.
// Anything that is not a known BusinessError is a 500.
func HTTPStatus(err error) int {
	var be *BusinessError
	if errors.As(err, &be) {
		if status, ok := statusByCode[be.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// Code returns the BusinessError code carried by err, if any.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Wrap common errors with business context
func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapClientNotFound(clientID string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientNotFound,
		fmt.Sprintf("Client with ID %s not found", clientID),
		ErrClientNotFound,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("Payment with ID %s not found", paymentID),
		ErrPaymentNotFound,
	)
}

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		message,
		ErrValidation,
	)
}

func WrapInvalidDateRange(start, due string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDateRange,
		fmt.Sprintf("Due date %s is before start date %s", due, start),
		ErrInvalidDateRange,
	)
}

func WrapInvalidStatus(status string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidStatus,
		fmt.Sprintf("Status %q is not a valid loan status", status),
		ErrInvalidStatus,
	)
}

func WrapInvalidCredentials() *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidCredentials,
		"Incorrect password",
		ErrInvalidCredentials,
	)
}

func WrapUnauthorized() *BusinessError {
	return NewBusinessError(
		ErrCodeUnauthorized,
		"Authentication required",
		ErrUnauthorized,
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
