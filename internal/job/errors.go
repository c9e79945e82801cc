package job

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNoJobName indicates the configuration is missing the required job name
	ErrNoJobName = errors.New("job configuration has no job name")

	// ErrTemplateNotFound indicates a configured template file could not be read
	ErrTemplateNotFound = errors.New("template file not found")
)

// UnsupportedPlatformError indicates a requested derived parameter needs a
// host probe that is unavailable on this platform. The caller must supply an
// explicit override for the named field.
type UnsupportedPlatformError struct {
	Field string // Derived field that could not be computed (e.g., "max_disk")
	Err   error  // Underlying probe error
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("cannot derive %s on this platform: %v (supply an explicit override)",
		e.Field, e.Err)
}

func (e *UnsupportedPlatformError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match UnsupportedPlatformError
func (e *UnsupportedPlatformError) Is(target error) bool {
	_, ok := target.(*UnsupportedPlatformError)
	return ok
}

// InvalidOverrideError indicates a caller-supplied override failed validation.
type InvalidOverrideError struct {
	Field  string // Option name (e.g., "mem")
	Value  string // Rejected value
	Reason string // Why it was rejected
}

func (e *InvalidOverrideError) Error() string {
	return fmt.Sprintf("invalid override %s=%q: %s", e.Field, e.Value, e.Reason)
}

// Is allows errors.Is to match InvalidOverrideError
func (e *InvalidOverrideError) Is(target error) bool {
	_, ok := target.(*InvalidOverrideError)
	return ok
}

// MissingPlaceholderError indicates a template references a placeholder with
// no resolvable value. No partial script is produced.
type MissingPlaceholderError struct {
	Name string // Placeholder name as written in the template
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("template placeholder {%s} has no value", e.Name)
}

// Is allows errors.Is to match MissingPlaceholderError
func (e *MissingPlaceholderError) Is(target error) bool {
	_, ok := target.(*MissingPlaceholderError)
	return ok
}

// Helper functions for creating errors

// NewUnsupportedPlatformError creates a new UnsupportedPlatformError
func NewUnsupportedPlatformError(field string, err error) *UnsupportedPlatformError {
	return &UnsupportedPlatformError{Field: field, Err: err}
}

// NewInvalidOverrideError creates a new InvalidOverrideError
func NewInvalidOverrideError(field, value, reason string) *InvalidOverrideError {
	return &InvalidOverrideError{Field: field, Value: value, Reason: reason}
}

// NewMissingPlaceholderError creates a new MissingPlaceholderError
func NewMissingPlaceholderError(name string) *MissingPlaceholderError {
	return &MissingPlaceholderError{Name: name}
}

// IsUnsupportedPlatformError checks if an error is an UnsupportedPlatformError
func IsUnsupportedPlatformError(err error) bool {
	var ue *UnsupportedPlatformError
	return errors.As(err, &ue)
}

// IsInvalidOverrideError checks if an error is an InvalidOverrideError
func IsInvalidOverrideError(err error) bool {
	var ie *InvalidOverrideError
	return errors.As(err, &ie)
}

// IsMissingPlaceholderError checks if an error is a MissingPlaceholderError
func IsMissingPlaceholderError(err error) bool {
	var me *MissingPlaceholderError
	return errors.As(err, &me)
}
