package api

import (
	"errors"
	"fmt"
)

// ValidationError represents a caller input problem: a malformed credential
// blob, a non-positive TTL, or missing required configuration. Validation
// errors are never retried; they are surfaced immediately to the caller or
// operator so the input can be fixed.
type ValidationError struct {
	// Field identifies the input that failed validation (e.g., "kubeconfig", "ttl")
	Field string

	// Message describes why validation failed
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// IsValidation checks if an error is a ValidationError using error unwrapping.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field, messageFmt string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf(messageFmt, args...),
	}
}

// NotFoundError represents a fetch or delete of a resource that does not
// exist. An expired session is reported exactly like one that was never
// issued, so a caller probing tokens cannot distinguish the two cases.
//
// Registry callers treat this as a normal negative result, not a failure
// the driver has to catch.
type NotFoundError struct {
	// ResourceType categorizes the type of resource that was not found
	// (e.g., "session", "agent", "api key")
	ResourceType string

	// ResourceName is the identifier of the resource that was not found.
	// For sessions this is a truncated token prefix, never the full token.
	ResourceName string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceName)
}

// IsNotFound checks if an error is a NotFoundError using error unwrapping.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a new NotFoundError with the specified resource
// type and name.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

// TransientError represents a timeout or failure from an external
// collaborator (diagnostic service, coordinator, chat API) during a cycle.
// Transient errors are logged and counted; they never abort the health-check
// loop or the remaining stages of the same cycle.
type TransientError struct {
	// Stage names the pipeline stage that failed (e.g., "analyzing", "reporting")
	Stage string

	// Err is the underlying failure
	Err error
}

// Error implements the error interface for TransientError.
func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure in %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/errors.As chains.
func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient checks if an error is a TransientError using error unwrapping.
func IsTransient(err error) bool {
	var transientErr *TransientError
	return errors.As(err, &transientErr)
}

// NewTransientError wraps an external-call failure with the stage it
// occurred in.
func NewTransientError(stage string, err error) *TransientError {
	return &TransientError{Stage: stage, Err: err}
}

// ConnectivityWarning records a probe or diagnostic call that failed while
// the session or state remains usable. It is informational: callers log it
// and continue in degraded mode rather than propagating it as a failure.
type ConnectivityWarning struct {
	// Target is the endpoint or cluster the probe ran against
	Target string

	// Err is the probe failure
	Err error
}

// Error implements the error interface for ConnectivityWarning.
func (e *ConnectivityWarning) Error() string {
	return fmt.Sprintf("connectivity to %s degraded: %v", e.Target, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/errors.As chains.
func (e *ConnectivityWarning) Unwrap() error {
	return e.Err
}

// IsConnectivityWarning checks if an error is a ConnectivityWarning.
func IsConnectivityWarning(err error) bool {
	var warn *ConnectivityWarning
	return errors.As(err, &warn)
}
