package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is a rejection returned by the backend. Message is the
// server-provided text and is shown to the operator unchanged.
type HTTPError struct {
	Code       int
	Message    string
	StatusCode int
}

func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		Code:       statusCode,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

func (e HTTPError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func (e HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRetryable reports whether the failure is on the server side.
func (e HTTPError) IsRetryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// AsHTTPError unwraps err into an *HTTPError if it carries one.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// Message returns the text to show an operator for err.
func Message(err error) string {
	if httpErr, ok := AsHTTPError(err); ok {
		return httpErr.Error()
	}
	return err.Error()
}
