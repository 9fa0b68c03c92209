package util

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := NewValidationError("field is required")
		msg := err.Error()
		if msg != "validation failed: field is required" {
			t.Errorf("unexpected message: %s", msg)
		}
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("ValidationError should unwrap to ErrValidationFailed")
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := NewValidationError("error 1", "error 2")
		msg := err.Error()
		if !strings.Contains(msg, "error 1") || !strings.Contains(msg, "error 2") {
			t.Errorf("Error message should contain all errors: %s", msg)
		}
	})

	t.Run("field errors sorted by name", func(t *testing.T) {
		err := &ValidationError{Fields: map[string]string{
			"scope":   "unknown scope",
			"address": "address is required",
		}}
		msg := err.Error()
		if strings.Index(msg, "address:") > strings.Index(msg, "scope:") {
			t.Errorf("fields should be listed in name order: %s", msg)
		}
		if got, ok := err.Field("scope"); !ok || got != "unknown scope" {
			t.Errorf("Field(scope) = %q, %v", got, ok)
		}
		if _, ok := err.Field("label"); ok {
			t.Error("Field(label) should not be set")
		}
	})
}

func TestValidationBuilder(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		v := &ValidationBuilder{}
		v.Add(true, "should not appear")
		if v.HasErrors() {
			t.Error("Should not have errors")
		}
		if err := v.Build(); err != nil {
			t.Errorf("Build() should return nil, got %v", err)
		}
	})

	t.Run("conditional error", func(t *testing.T) {
		v := &ValidationBuilder{}
		v.Add(false, "condition failed")
		err := v.Build()
		if err == nil || !strings.Contains(err.Error(), "condition failed") {
			t.Errorf("expected condition failure, got %v", err)
		}
	})

	t.Run("first field message wins", func(t *testing.T) {
		v := &ValidationBuilder{}
		v.AddFieldf("dst", "first %d", 1)
		v.AddFieldf("dst", "second %d", 2)
		if !v.HasField("dst") {
			t.Fatal("HasField(dst) = false")
		}
		var verr *ValidationError
		if !errors.As(v.Build(), &verr) {
			t.Fatal("Build() should return *ValidationError")
		}
		if got := verr.Fields["dst"]; got != "first 1" {
			t.Errorf("Fields[dst] = %q, want %q", got, "first 1")
		}
	})
}
