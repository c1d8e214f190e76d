package client

import (
	"errors"
	"fmt"
)

// maxErrBodySize caps how much of a response body is copied into an
// error value.
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrTransportUnavailable is returned when a [Client] has no transport to dispatch through.
	ErrTransportUnavailable = errors.New("transport unavailable")
	// ErrNetwork is wrapped by [NetworkError].
	ErrNetwork = errors.New("network error")
	// ErrResponseParse is wrapped by [ResponseParseError].
	ErrResponseParse = errors.New("response parse error")
	// ErrCancelled is returned when the request context ends before a response arrives.
	ErrCancelled = errors.New("request cancelled")
	// ErrInvalidOptions is returned when the resolved request options fail validation.
	ErrInvalidOptions = errors.New("invalid request options")
	// ErrRedirectBlocked is returned by the HTTP transport for redirect mode "error".
	ErrRedirectBlocked = errors.New("redirect blocked")
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
)

// NetworkError is returned when the transport fails to produce a response.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrNetwork, e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// ResponseParseError is returned when a response body is not valid JSON.
// Body holds at most the first 4KB of the payload.
type ResponseParseError struct {
	Body string
	Err  error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("%v: %v, body: %s", ErrResponseParse, e.Err, e.Body)
}

func (e *ResponseParseError) Unwrap() []error {
	return []error{ErrResponseParse, e.Err}
}

// UnexpectedStatusError is returned when [WithExpectedStatus] is set and
// the response status is not one of the expected codes.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

func truncate(b []byte) string {
	if len(b) > maxErrBodySize {
		b = b[:maxErrBodySize]
	}

	return string(b)
}
