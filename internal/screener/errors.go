// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screener

import (
	"fmt"

	"github.com/meshintel/partlens/pkg/types"
)

// APIError is the typed failure raised inside the screening stage. Every
// failure path of the client and service produces one so that callers can
// discriminate on Kind; raw transport errors never escape untyped.
type APIError struct {
	// Kind classifies the failure.
	Kind types.ErrorKind

	// Message is a human-readable description.
	Message string

	// RetryAfter is the suggested wait in seconds, when known.
	RetryAfter int

	// Err is the underlying cause, if any.
	Err error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// apiErrorf builds an APIError with a formatted message.
func apiErrorf(kind types.ErrorKind, format string, args ...any) *APIError {
	return &APIError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapAPIError builds an APIError around an underlying cause.
func wrapAPIError(kind types.ErrorKind, err error, format string, args ...any) *APIError {
	return &APIError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}
