package entity

import (
	"errors"
	"fmt"
)

var (
	// Task errors
	ErrTaskNotFound = errors.New("task not found")
	ErrDuplicateID  = errors.New("task id already exists")
	ErrEmptyTaskID  = errors.New("task id cannot be empty")

	// Validation errors
	ErrValidation      = errors.New("validation failed")
	ErrInvalidPriority = errors.New("invalid priority value")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidSubtask  = errors.New("subtask index out of range")

	// Synchronization errors
	ErrOperationInFlight   = errors.New("another operation on this task is still in progress")
	ErrNeedsReconciliation = errors.New("remote task and trash stores disagree; manual reconciliation required")
	ErrNoDragSource        = errors.New("no task is being dragged")
)

// ValidationError is bad local input detected before any remote call
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// DuplicateIDError is returned when a collection already holds an id
type DuplicateIDError struct {
	Collection string
	ID         string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s: task %q already exists", e.Collection, e.ID)
}

func (e *DuplicateIDError) Unwrap() error {
	return ErrDuplicateID
}

// NotFoundError is returned when a collection has no task with an id
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: task %q not found", e.Collection, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrTaskNotFound
}

// ReconciliationError reports a two-step operation whose first remote call
// succeeded and whose second failed. Local state is left untouched.
type ReconciliationError struct {
	Operation string
	TaskID    string
	Step      string
	Err       error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("%s %s: %s failed after the first step succeeded: %v", e.Operation, e.TaskID, e.Step, e.Err)
}

func (e *ReconciliationError) Unwrap() []error {
	return []error{ErrNeedsReconciliation, e.Err}
}
