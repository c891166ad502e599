// Package errors provides domain-specific error types and sentinel errors
// shared by the dispatcher, the station lookup and the webhook layer.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrUnhandledEventKind indicates an event kind no rule consumes.
	ErrUnhandledEventKind = errors.New("unhandled event kind")

	// ErrInvalidTable indicates a rule table that cannot dispatch every event.
	ErrInvalidTable = errors.New("invalid rule table")

	// ErrStationNotFound indicates the lookup service returned no station.
	ErrStationNotFound = errors.New("station not found")

	// ErrInvalidInput indicates malformed input from a collaborator.
	ErrInvalidInput = errors.New("invalid input")
)

// IsUnhandledEventKind reports whether err is or wraps ErrUnhandledEventKind.
func IsUnhandledEventKind(err error) bool {
	return errors.Is(err, ErrUnhandledEventKind)
}

// IsStationNotFound reports whether err is or wraps ErrStationNotFound.
func IsStationNotFound(err error) bool {
	return errors.Is(err, ErrStationNotFound)
}

// IsInvalidInput reports whether err is or wraps ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// DeliveryError is returned by the outbound sink when a reply could not be sent.
type DeliveryError struct {
	Operation  string // "reply" or "apology"
	StatusCode int    // HTTP status from the platform, 0 if unknown
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("delivery error (op=%s, status=%d): %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("delivery error (op=%s): %v", e.Operation, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// NewDeliveryError creates a new delivery error.
func NewDeliveryError(operation string, statusCode int, err error) *DeliveryError {
	return &DeliveryError{
		Operation:  operation,
		StatusCode: statusCode,
		Err:        err,
	}
}

// AsDeliveryError returns the *DeliveryError in err's chain, if any.
func AsDeliveryError(err error) (*DeliveryError, bool) {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
