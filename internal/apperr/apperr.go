// Package apperr defines the domain error taxonomy. Every error a service
// returns to a handler is one of these types (or wraps one), so handlers can
// map outcomes to status codes with errors.As and never inspect strings.
package apperr

import (
	"errors"
	"fmt"
)

// ErrUnavailable signals a persistence-layer failure (connection loss,
// timeout). The core never retries; retry policy belongs to the caller.
var ErrUnavailable = errors.New("service unavailable")

// Unavailable tags a storage error with ErrUnavailable, keeping the
// operation and the driver cause in the message. A nil cause returns nil so
// repositories can wrap return values unconditionally.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrUnavailable)
}

// ValidationError reports a malformed or out-of-range field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// NewValidation creates a ValidationError for a field
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports that an id or slug resolved to nothing, or to
// another owner's private article
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// ConflictError reports a uniqueness conflict (slug collision on create or
// rename). Collisions are reported, never silently resolved.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s %q already exists", e.Field, e.Value)
}

// NewConflict creates a ConflictError
func NewConflict(field, value string) *ConflictError {
	return &ConflictError{Field: field, Value: value}
}

// StateError reports an invalid lifecycle transition, e.g. publishing an
// article without a category
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return "invalid state: " + e.Message
}

// NewState creates a StateError
func NewState(message string) *StateError {
	return &StateError{Message: message}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is (or wraps) a ConflictError
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsState reports whether err is (or wraps) a StateError
func IsState(err error) bool {
	var s *StateError
	return errors.As(err, &s)
}

// IsUnavailable reports whether err is (or wraps) ErrUnavailable
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
