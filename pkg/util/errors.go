// Package util provides logging helpers, common error types and address
// parsing shared by the console packages.
package util

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrValidationFailed = errors.New("validation failed")
	ErrNotReady         = errors.New("resource not loaded")
)

// ValidationError represents one or more validation failures. Field-level
// failures are keyed by form field name so a dialog can show each message
// next to its control.
type ValidationError struct {
	Errors []string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := e.messages()
	if len(msgs) == 1 {
		return "validation failed: " + msgs[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Field returns the message recorded for a form field, if any.
func (e *ValidationError) Field(name string) (string, bool) {
	msg, ok := e.Fields[name]
	return msg, ok
}

func (e *ValidationError) messages() []string {
	msgs := append([]string(nil), e.Errors...)
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		msgs = append(msgs, name+": "+e.Fields[name])
	}
	return msgs
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
	fields map[string]string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddError adds an error message unconditionally
func (v *ValidationBuilder) AddError(message string) *ValidationBuilder {
	v.errors = append(v.errors, message)
	return v
}

// AddFieldf records a formatted message against a form field. The first
// message for a field wins.
func (v *ValidationBuilder) AddFieldf(field, format string, args ...interface{}) *ValidationBuilder {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, ok := v.fields[field]; !ok {
		v.fields[field] = fmt.Sprintf(format, args...)
	}
	return v
}

// HasField reports whether a message is already recorded for field.
func (v *ValidationBuilder) HasField(field string) bool {
	_, ok := v.fields[field]
	return ok
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0 || len(v.fields) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if !v.HasErrors() {
		return nil
	}
	return &ValidationError{Errors: v.errors, Fields: v.fields}
}
