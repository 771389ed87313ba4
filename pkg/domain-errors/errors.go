// Package domainerrors provides coded errors for domain rule violations.
// Stores return infrastructure sentinels (pkg/platform/sentinel); services
// translate them into coded errors so transports can map codes to responses
// without string matching.
package domainerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies a domain error.
type Code string

const (
	CodeInvalidInput       Code = "invalid_input"
	CodeBadRequest         Code = "bad_request"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeAlreadyWithdrawn   Code = "already_withdrawn"
	CodeInternal           Code = "internal"
	CodeTimeout            Code = "timeout"
)

// Error carries a code, a human-readable message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		return HasCode(de.Err, code)
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return code == CodeInvalidInput
	}
	return false
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return CodeInvalidInput
	}
	return CodeInternal
}

// FieldError is a single domain-rule violation on a named field.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) Error() string { return f.Field + ": " + f.Message }

// ValidationErrors is the list-of-violations result of model construction.
// It is distinct from persistence errors: the caller gets every failed rule,
// not just the first one.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, f := range v {
		msgs[i] = f.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// IsValidation reports whether the error is a validation-error list.
func IsValidation(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}
