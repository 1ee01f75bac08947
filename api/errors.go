package api

import "fmt"

// CodeUnknownError is the code assigned to failures the server never
// described: transport errors, timeouts, and undecodable error bodies.
const CodeUnknownError = "UNKNOWN_ERROR"

// Error is the normalized shape every failed request is converted to before
// reaching callers. Server error bodies that already carry {code, message,
// details} pass through verbatim.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	// Status is the HTTP status of the response, or 0 when no response was
	// received. Not part of the wire shape.
	Status int `json:"-"`
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api: %s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.Code, e.Message)
}

// IsUnauthorized reports whether the error is an HTTP 401
func (e *Error) IsUnauthorized() bool {
	return e.Status == 401
}

func unknownError(message string) *Error {
	if message == "" {
		message = "an unexpected error occurred"
	}
	return &Error{Code: CodeUnknownError, Message: message}
}
