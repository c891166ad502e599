package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		checkFn  func(error) bool
		expected bool
	}{
		{
			name:     "ErrUnhandledEventKind is recognized",
			err:      ErrUnhandledEventKind,
			checkFn:  IsUnhandledEventKind,
			expected: true,
		},
		{
			name:     "Wrapped ErrUnhandledEventKind is recognized",
			err:      fmt.Errorf("dispatch location: %w", ErrUnhandledEventKind),
			checkFn:  IsUnhandledEventKind,
			expected: true,
		},
		{
			name:     "Different error is not ErrUnhandledEventKind",
			err:      ErrInvalidTable,
			checkFn:  IsUnhandledEventKind,
			expected: false,
		},
		{
			name:     "ErrStationNotFound is recognized",
			err:      errors.Join(ErrStationNotFound, errors.New("empty response")),
			checkFn:  IsStationNotFound,
			expected: true,
		},
		{
			name:     "ErrInvalidInput is recognized",
			err:      ErrInvalidInput,
			checkFn:  IsInvalidInput,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.checkFn(tt.err)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestDeliveryError(t *testing.T) {
	baseErr := errors.New("connection reset")
	err := NewDeliveryError("reply", 500, baseErr)

	if err.Operation != "reply" {
		t.Errorf("expected operation 'reply', got '%s'", err.Operation)
	}

	if !errors.Is(err, baseErr) {
		t.Error("expected error to wrap base error")
	}

	if got, want := err.Error(), "delivery error (op=reply, status=500): connection reset"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	noStatus := NewDeliveryError("apology", 0, baseErr)
	if got, want := noStatus.Error(), "delivery error (op=apology): connection reset"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	found, ok := AsDeliveryError(fmt.Errorf("webhook: %w", err))
	if !ok || found.StatusCode != 500 {
		t.Errorf("AsDeliveryError() = %v, %v; want status 500", found, ok)
	}
	if _, ok := AsDeliveryError(baseErr); ok {
		t.Error("plain error should not be a DeliveryError")
	}
}
