package domain

import (
	"errors"
	"fmt"
)

// DomainError is an error with a stable code that the API maps to a status.
// Message is safe to show to clients; Err is the underlying cause, if any.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is matches on code, and on message when the target sets one, so a wrapped
// sentinel compares equal to a fresh error built with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Message == "" || e.Message == t.Message)
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Error codes.
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeInference     = "INFERENCE_ERROR"
	ErrCodeFileFormat    = "FILE_FORMAT_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

var (
	ErrSearchNotFound      = NewDomainError(ErrCodeNotFound, "search not found")
	ErrSearchAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "search already exists")
)

// ValidationError reports a bad or missing input field.
func ValidationError(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// InferenceError reports an Oracle failure or a broken Oracle response.
func InferenceError(message string, cause error) *DomainError {
	return &DomainError{Code: ErrCodeInference, Message: message, Err: cause}
}

// FileFormatError reports an upload that cannot be decoded at all.
func FileFormatError(message string, cause error) *DomainError {
	return &DomainError{Code: ErrCodeFileFormat, Message: message, Err: cause}
}

// HasCode reports whether err is a DomainError carrying code anywhere in its chain.
func HasCode(err error, code string) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == code
}
