// Package errors defines the client-side error taxonomy for the credit
// intake workflow.
//
// Four kinds of failures leave the request/submission path:
//
//   - ValidationError: a draft field violated a local constraint; the
//     network was never touched.
//   - AuthError: the remote service rejected the bearer credential (401);
//     the gateway has already performed the forced-logout side effect by
//     the time the caller sees this.
//   - ServerError: any other non-2xx response, carrying the status and the
//     server's structured detail message when one was supplied.
//   - NetworkError: no response was received at all.
package errors

import (
	"errors"
	"fmt"
)

// GenericMessage is shown when the server supplies no usable detail.
const GenericMessage = "Something went wrong. Please try again."

// ValidationError reports the first violated constraint of a draft field.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// AuthError is a 401-class rejection from the remote service.
type AuthError struct {
	Detail string `json:"detail,omitempty"`
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "authentication rejected"
	}
	return fmt.Sprintf("authentication rejected: %s", e.Detail)
}

// ServerError is any non-2xx, non-401 response.
type ServerError struct {
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server error (status %d)", e.Status)
	}
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Detail)
}

// NetworkError wraps a transport-level failure where no response arrived.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsNetwork reports whether err is (or wraps) a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Humanize returns the best available user-facing message for err,
// falling back to a generic message when the server supplied none.
func Humanize(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return fmt.Sprintf("%s: %s", ve.Field, ve.Reason)
	}

	var ae *AuthError
	if errors.As(err, &ae) {
		if ae.Detail != "" {
			return ae.Detail
		}
		return "Session expired or credentials rejected. Please sign in again."
	}

	var se *ServerError
	if errors.As(err, &se) {
		if se.Detail != "" {
			return se.Detail
		}
		return GenericMessage
	}

	var ne *NetworkError
	if errors.As(err, &ne) {
		return "Could not reach the service. Check your connection and try again."
	}

	return GenericMessage
}
