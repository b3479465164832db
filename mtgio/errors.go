package mtgio

import (
	"errors"
	"fmt"
)

// ErrNoCardFound is returned when the API answered successfully but the
// response carried the empty-result body instead of card data.
var ErrNoCardFound = errors.New("no card found")

// RequestError is returned when the API answered with a non-2xx status code.
type RequestError struct {
	// StatusCode is the HTTP response status code
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("get request failed with status code: %d", e.StatusCode)
}

// TransportError wraps failures below the HTTP layer (DNS, TLS, timeouts).
// It carries the underlying error's message only, so callers never depend on
// transport library types.
type TransportError struct {
	Message string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error calling the API endpoint: %s", e.Message)
}

// NoSuchNameError is returned when an exact-name search matched nothing.
type NoSuchNameError struct {
	Name string
}

func (e *NoSuchNameError) Error() string {
	return fmt.Sprintf("no cards exist with name: %s", e.Name)
}

// HeaderMissingError names the response header field that was absent.
type HeaderMissingError struct {
	Field string
}

func (e *HeaderMissingError) Error() string {
	return fmt.Sprintf("header item not found: %s", e.Field)
}

// HeaderConversionError is returned when a numeric header field does not
// parse as an unsigned integer.
type HeaderConversionError struct {
	Message string
}

func (e *HeaderConversionError) Error() string {
	return fmt.Sprintf("conversion error: %s", e.Message)
}

// DecodeError carries the JSON parser's message for a malformed body.
type DecodeError struct {
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %s", e.Message)
}
