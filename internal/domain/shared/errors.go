// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrExpired         = errors.New("expired")

	// Capacity errors
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrOptimisticLock         = errors.New("optimistic lock failure")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "scholarship", "application", "audit"
	Op      string // Operation that failed, e.g., "Approve", "Delete"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Scholarship domain errors
var (
	ErrScholarshipNotFound   = NewDomainError("scholarship", "Find", ErrNotFound, "scholarship not found")
	ErrScholarshipExists     = NewDomainError("scholarship", "Create", ErrAlreadyExists, "scholarship already exists")
	ErrScholarshipNotActive  = NewDomainError("scholarship", "CheckStatus", ErrInvalidState, "scholarship is not active")
	ErrScholarshipFull       = NewDomainError("scholarship", "Approve", ErrCapacityExceeded, "no seats remain")
	ErrScholarshipHasAwards  = NewDomainError("scholarship", "Delete", ErrInvalidState, "scholarship has approved applications")
	ErrScholarshipHasPending = NewDomainError("scholarship", "Delete", ErrInvalidState, "scholarship has pending applications")
	ErrInvalidSeatCount      = NewDomainError("scholarship", "Validate", ErrValueOutOfRange, "invalid seat count")
	ErrInvalidCategory       = NewDomainError("scholarship", "Validate", ErrInvalidInput, "invalid scholarship category")
)

// Application domain errors
var (
	ErrApplicationNotFound = NewDomainError("application", "Find", ErrNotFound, "application not found")
	ErrApplicationExists   = NewDomainError("application", "Create", ErrAlreadyExists, "application already exists")
	ErrNotPending          = NewDomainError("application", "Review", ErrStateTransition, "application is not pending")
	ErrInvalidCGPA         = NewDomainError("application", "Validate", ErrValueOutOfRange, "CGPA must be between 0.0 and 10.0")
	ErrInvalidIncome       = NewDomainError("application", "Validate", ErrNegativeValue, "family income cannot be negative")
	ErrInvalidScore        = NewDomainError("application", "Validate", ErrValueOutOfRange, "score must be between 0 and 100")
	ErrInvalidStudentRoll  = NewDomainError("application", "Validate", ErrInvalidFormat, "invalid student roll number")
)

// Admin domain errors
var (
	ErrAdminNotFound       = NewDomainError("admin", "Find", ErrNotFound, "admin profile not found")
	ErrAdminExists         = NewDomainError("admin", "Create", ErrAlreadyExists, "admin profile already exists")
	ErrInvalidCredentials  = NewDomainError("admin", "Authenticate", ErrUnauthorized, "invalid credentials")
	ErrInvalidEmailAddress = NewDomainError("admin", "Validate", ErrInvalidFormat, "invalid email address")
)

// Audit domain errors
var (
	ErrAuditAppendFailed = NewDomainError("audit", "Append", ErrExternalService, "failed to append audit entry")
	ErrInvalidAction     = NewDomainError("audit", "Validate", ErrInvalidInput, "invalid audit action")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCapacityExceeded checks if the error is a capacity error.
func IsCapacityExceeded(err error) bool {
	return errors.Is(err, ErrCapacityExceeded)
}

// IsInvalidTransition checks if the error is a state transition error.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrStateTransition)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsRetryable checks if the operation can be retried.
// Business-state conditions (capacity, transitions) are never retryable;
// only infrastructure faults are.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConcurrentModification)
}
