// Package domain defines the core domain models for Rolodex.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes have the form RLDX-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "RLDX-CONT-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true // Only check if it's a DomainError
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Contact Errors (CONT)
// ============================================================================

var (
	// ErrContactNotFound indicates no contact matched the query.
	ErrContactNotFound = NewDomainError("RLDX-CONT-4040", "contact not found")

	// ErrEmptyKey indicates an insertion request without any name words.
	ErrEmptyKey = NewDomainError("RLDX-CONT-4001", "contact name is empty")

	// ErrInvalidText indicates a name or value that is not valid UTF-8.
	ErrInvalidText = NewDomainError("RLDX-CONT-4002", "contact text is not valid UTF-8")
)

// ============================================================================
// Index Errors (INDX)
// ============================================================================

var (
	// ErrIndexInconsistent indicates the trie and the record store disagree.
	ErrIndexInconsistent = NewDomainError("RLDX-INDX-5000", "index inconsistent with records")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrStorageError indicates a storage layer error.
	ErrStorageError = NewDomainError("RLDX-SYS-5001", "storage error")
)
