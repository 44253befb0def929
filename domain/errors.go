package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across components.
type ErrorCode string

const (
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeTransport    ErrorCode = "TRANSPORT"
	ErrCodeServer       ErrorCode = "SERVER"
	ErrCodePrint        ErrorCode = "PRINT"
	ErrCodeParse        ErrorCode = "PARSE"
	ErrCodeInvalid      ErrorCode = "INVALID"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrNoOperators    = NewError(ErrCodeInvalid, "no authorized operators")
	ErrNoCrew         = NewError(ErrCodeInvalid, "no operators with an assigned workplace")
	ErrTokenExpired   = NewError(ErrCodeUnauthorized, "token missing or expired, authorize again")
	ErrOrderNotFound  = NewError(ErrCodeNotFound, "order not found")
	ErrEmptyOrder     = NewError(ErrCodeInvalid, "order number is empty")
	ErrBadCredentials = NewError(ErrCodeUnauthorized, "invalid username or password")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// AlertWorthy reports whether a failure must trigger the audible alert.
// Transport, server, print and authorization failures alert; business
// outcomes such as validation rejections and 404s are informational.
func AlertWorthy(err error) bool {
	var dErr *Error
	if !errors.As(err, &dErr) {
		return err != nil
	}
	switch dErr.Code {
	case ErrCodeUnauthorized, ErrCodeTransport, ErrCodeServer, ErrCodePrint:
		return true
	default:
		return false
	}
}
