package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeInvalidInput, "roomCount %d exceeds cell count %d", 12, 9)
	if got, want := err.Error(), "INVALID_INPUT: roomCount 12 exceeds cell count 9"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if err.Cause != nil {
		t.Errorf("New() should not set a cause, got %v", err.Cause)
	}

	cause := errors.New("connection refused")
	wrapped := Wrap(ErrCodeInternal, cause, "save map %s", "abc")
	if got, want := wrapped.Error(), "INTERNAL_ERROR: save map abc: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if errors.Unwrap(wrapped) != cause || !errors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestCodeLookup(t *testing.T) {
	infeasible := New(ErrCodeInfeasible, "no seed cell for room %d", 4)

	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"direct", infeasible, ErrCodeInfeasible},
		{"fmt wrapped", fmt.Errorf("generate: %w", infeasible), ErrCodeInfeasible},
		{"outermost wins", Wrap(ErrCodeInternal, infeasible, "render"), ErrCodeInternal},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(err, %q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeNotFound) {
				t.Error("Is(err, NOT_FOUND) = true")
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidPickMethod, "unknown pick method %q", "far")); got != `unknown pick method "far"` {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(fmt.Errorf("open map store: %w", New(ErrCodeNotFound, "map x not found"))); got != "map x not found" {
		t.Errorf("UserMessage(wrapped) = %q", got)
	}
	if got := UserMessage(errors.New("disk full")); got != "disk full" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		code       Code
		invalid    bool
		generation bool
	}{
		{ErrCodeInvalidInput, true, false},
		{ErrCodeInvalidPickMethod, true, false},
		{ErrCodeInvalidMethod, true, false},
		{ErrCodeInvalidFormat, true, false},
		{ErrCodeInfeasible, false, true},
		{ErrCodeIterationLimit, false, true},
		{ErrCodeNotFound, false, false},
		{ErrCodeInternal, false, false},
		{ErrCodeUnsupported, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "x")
			if got := IsInvalid(err); got != tt.invalid {
				t.Errorf("IsInvalid() = %v, want %v", got, tt.invalid)
			}
			if got := IsGeneration(err); got != tt.generation {
				t.Errorf("IsGeneration() = %v, want %v", got, tt.generation)
			}
		})
	}

	if IsInvalid(errors.New("plain")) || IsGeneration(nil) {
		t.Error("uncoded errors belong to no category")
	}
}
